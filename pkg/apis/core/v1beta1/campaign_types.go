/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1beta1

import (
	"errors"
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +kubebuilder:object:root=true
type Campaign struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	CampaignSpec `json:",inline"`
}

// CampaignSpec describes the static deployment of one test campaign:
// the library under test, the server/client test bed and the driver
// parameters which do not change between runs.
type CampaignSpec struct {
	// Selector of the library under test, passed verbatim to the driver.
	Libos string `json:"libos,omitempty"`

	// Location of the source repository on the remote hosts.
	Repository string `json:"repository,omitempty"`

	Server HostSpec `json:"server,omitempty"`
	Client HostSpec `json:"client,omitempty"`

	// Settle time between sequential system tests.
	Delay metav1.Duration `json:"delay,omitempty"`

	Tests TestSelection `json:"tests,omitempty"`

	Trigger TriggerSpec `json:"trigger,omitempty"`

	Artifacts ArtifactSpec `json:"artifacts,omitempty"`

	// Upper bound for a single stage, zero means no limit.
	StageTimeout metav1.Duration `json:"stageTimeout,omitempty"`

	Driver DriverSpec `json:"driver,omitempty"`
}

// HostSpec is the static half of a host role binding. The hostname and
// credentials are secret material and resolved at run time.
type HostSpec struct {
	// Address used by the tests on the data path, e.g. 10.3.1.10.
	Address string `json:"address,omitempty"`
}

type TestSelection struct {
	// Run the unit test category.
	Unit bool `json:"unit,omitempty"`

	// System test suite name, `all` selects every suite.
	System string `json:"system,omitempty"`
}

type TriggerSpec struct {
	// Branch name patterns which qualify for a run. A trailing `*`
	// matches any suffix, anything else is an exact match.
	Branches []string `json:"branches,omitempty"`
}

type ArtifactSpec struct {
	// File suffixes collected from the working tree after each stage.
	Suffixes []string `json:"suffixes,omitempty"`

	// Directory the per stage bundles are placed in.
	Dir string `json:"dir,omitempty"`
}

type DriverSpec struct {
	// Driver executable and leading arguments, e.g. [python3, tools/ci.py].
	Command []string `json:"command,omitempty"`

	// Working directory the driver is started in. The artifact
	// collection walks this tree.
	WorkDir string `json:"workDir,omitempty"`
}

var DefaultTriggerBranches = []string{
	"bugfix-*",
	"enhancement-*",
	"feature-*",
	"workaround-*",
	"dev",
	"unstable",
	"main",
}

var DefaultArtifactSuffixes = []string{
	".stdout.txt",
	".stderr.txt",
}

func (c *Campaign) SetDefaults() {
	if len(c.Trigger.Branches) == 0 {
		c.Trigger.Branches = DefaultTriggerBranches
	}

	if len(c.Artifacts.Suffixes) == 0 {
		c.Artifacts.Suffixes = DefaultArtifactSuffixes
	}

	if c.Artifacts.Dir == "" {
		c.Artifacts.Dir = "."
	}

	if c.Delay.Duration == 0 {
		c.Delay.Duration = 2 * time.Second
	}

	if c.Tests.System == "" {
		c.Tests.System = "all"
	}

	if c.Driver.WorkDir == "" {
		c.Driver.WorkDir = "."
	}
}

var ErrInvalidCampaign = errors.New("invalid campaign")

func (c *Campaign) Validate() error {
	switch {
	case c.Libos == "":
		return fmt.Errorf("libos selector is required: %w", ErrInvalidCampaign)
	case c.Repository == "":
		return fmt.Errorf("repository is required: %w", ErrInvalidCampaign)
	case c.Server.Address == "":
		return fmt.Errorf("server address is required: %w", ErrInvalidCampaign)
	case c.Client.Address == "":
		return fmt.Errorf("client address is required: %w", ErrInvalidCampaign)
	case len(c.Driver.Command) == 0:
		return fmt.Errorf("driver command is required: %w", ErrInvalidCampaign)
	}

	return nil
}

// +kubebuilder:object:root=true
type CampaignList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Campaign `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Campaign{}, &CampaignList{})
}
