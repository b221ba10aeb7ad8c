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

// HostRole is the logical role a test host plays during a campaign.
type HostRole string

const (
	HostRoleServer HostRole = "server"
	HostRoleClient HostRole = "client"
)

// StageName identifies one of the two campaign stages.
type StageName string

const (
	StageDebug   StageName = "debug"
	StageRelease StageName = "release"
)

// RunPhase tracks the sequencer through one run.
type RunPhase string

const (
	RunPhaseNotStarted     RunPhase = "NotStarted"
	RunPhaseDebugRunning   RunPhase = "DebugRunning"
	RunPhaseDebugDone      RunPhase = "DebugDone"
	RunPhaseReleaseRunning RunPhase = "ReleaseRunning"
	RunPhaseCompleted      RunPhase = "Completed"
	RunPhaseAborted        RunPhase = "Aborted"
)

// RunStatus is the aggregated result reported for a whole run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "Pending"
	RunStatusRunning   RunStatus = "Running"
	RunStatusSucceeded RunStatus = "Succeeded"
	RunStatusFailed    RunStatus = "Failed"
)

// StageStatus is the terminal state of a single stage.
type StageStatus string

const (
	StageStatusPending   StageStatus = "Pending"
	StageStatusRunning   StageStatus = "Running"
	StageStatusSucceeded StageStatus = "Succeeded"
	StageStatusFailed    StageStatus = "Failed"
	StageStatusSkipped   StageStatus = "Skipped"
)

func (s StageStatus) Terminal() bool {
	return s == StageStatusSucceeded || s == StageStatusFailed || s == StageStatusSkipped
}
