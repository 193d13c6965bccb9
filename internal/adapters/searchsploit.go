package adapters

const (
	searchsploitToolNameConstant   = "searchsploit"
	searchsploitTermsFieldConstant = "terms"
	searchsploitStrictFlagConstant = "--strict"
	searchsploitPathFlagConstant   = "-p"
)

type searchsploitParameters struct {
	Terms     string `mapstructure:"terms"`
	Strict    bool   `mapstructure:"strict"`
	ShowPaths bool   `mapstructure:"show_paths"`
}

// SearchSploitAdapter builds exploit database lookups.
type SearchSploitAdapter struct{}

// NewSearchSploitAdapter constructs a SearchSploitAdapter.
func NewSearchSploitAdapter() *SearchSploitAdapter {
	return &SearchSploitAdapter{}
}

// ToolName returns the canonical tool name.
func (adapter *SearchSploitAdapter) ToolName() string {
	return searchsploitToolNameConstant
}

// Validate reports the first parameter problem.
func (adapter *SearchSploitAdapter) Validate(parameters ParameterSet) error {
	_, buildError := adapter.BuildArguments(parameters)
	return buildError
}

// BuildArguments returns the optional switches followed by the shell-split search terms.
func (adapter *SearchSploitAdapter) BuildArguments(parameters ParameterSet) ([]string, error) {
	var decoded searchsploitParameters
	if decodeError := decodeParameters(searchsploitToolNameConstant, parameters, &decoded); decodeError != nil {
		return nil, decodeError
	}

	rawTerms, termsError := requireText(searchsploitToolNameConstant, searchsploitTermsFieldConstant, decoded.Terms)
	if termsError != nil {
		return nil, termsError
	}
	terms, splitError := splitShellWords(searchsploitToolNameConstant, searchsploitTermsFieldConstant, rawTerms)
	if splitError != nil {
		return nil, splitError
	}

	arguments := make([]string, 0, len(terms)+2)
	if decoded.Strict {
		arguments = append(arguments, searchsploitStrictFlagConstant)
	}
	if decoded.ShowPaths {
		arguments = append(arguments, searchsploitPathFlagConstant)
	}
	return append(arguments, terms...), nil
}
