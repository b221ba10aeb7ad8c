package processor

// ProcessorBuilder constructs a processor for one stage, nil disables it.
type ProcessorBuilder func(spec *StageSpec) Bootstraper

func Builder(spec *StageSpec, builders ...ProcessorBuilder) []Bootstraper {
	var result []Bootstraper
	for _, builder := range builders {
		processor := builder(spec)
		if processor != nil {
			result = append(result, processor)
		}
	}

	return result
}
