package resolver

const (
	sqlmapInstallGuidanceConstant = "Consider cloning from GitHub: git clone --depth 1 https://github.com/sqlmapproject/sqlmap.git sqlmap-dev, then run 'python3 sqlmap.py' from its directory."
	niktoInstallGuidanceConstant  = "Consider cloning from GitHub: git clone https://github.com/sullo/nikto.git, then run 'perl nikto.pl' from its program/ directory."
)

// InterpreterRequirement marks candidates that are scripts needing an interpreter.
// A candidate matches when its resolved path carries one of the extensions or
// when the candidate or resolved path contains one of the path hints.
type InterpreterRequirement struct {
	Extensions []string `mapstructure:"extensions"`
	PathHints  []string `mapstructure:"path_hints"`
	Candidates []string `mapstructure:"candidates"`
}

// ToolSpec identifies a wrapped utility and where to find it.
type ToolSpec struct {
	Name            string                  `mapstructure:"name"`
	DisplayName     string                  `mapstructure:"display_name"`
	Candidates      []string                `mapstructure:"candidates"`
	Interpreter     *InterpreterRequirement `mapstructure:"interpreter"`
	PackageName     string                  `mapstructure:"package"`
	InstallGuidance string                  `mapstructure:"install_guidance"`
}

func (specification ToolSpec) clone() ToolSpec {
	cloned := specification
	cloned.Candidates = append([]string{}, specification.Candidates...)
	if specification.Interpreter != nil {
		interpreter := InterpreterRequirement{
			Extensions: append([]string{}, specification.Interpreter.Extensions...),
			PathHints:  append([]string{}, specification.Interpreter.PathHints...),
			Candidates: append([]string{}, specification.Interpreter.Candidates...),
		}
		cloned.Interpreter = &interpreter
	}
	return cloned
}

// DefaultToolSpecs returns the built-in tool table used when configuration does not override it.
func DefaultToolSpecs() []ToolSpec {
	return []ToolSpec{
		{
			Name:        "gobuster",
			DisplayName: "Gobuster",
			Candidates:  []string{"/usr/bin/gobuster", "/snap/bin/gobuster", "gobuster"},
			PackageName: "gobuster",
		},
		{
			Name:        "nmap",
			DisplayName: "Nmap",
			Candidates:  []string{"/usr/bin/nmap", "nmap"},
			PackageName: "nmap",
		},
		{
			Name:        "sqlmap",
			DisplayName: "SQLMap",
			Candidates:  []string{"/usr/share/sqlmap/sqlmap.py", "sqlmap.py", "sqlmap"},
			Interpreter: &InterpreterRequirement{
				Extensions: []string{".py"},
				PathHints:  []string{"sqlmap.py"},
				Candidates: []string{"python3", "python"},
			},
			PackageName:     "sqlmap",
			InstallGuidance: sqlmapInstallGuidanceConstant,
		},
		{
			Name:        "nikto",
			DisplayName: "Nikto",
			Candidates:  []string{"/usr/bin/nikto", "/opt/nikto/program/nikto.pl", "nikto.pl", "nikto"},
			Interpreter: &InterpreterRequirement{
				Extensions: []string{".pl"},
				PathHints:  []string{"nikto.pl"},
				Candidates: []string{"perl"},
			},
			PackageName:     "nikto",
			InstallGuidance: niktoInstallGuidanceConstant,
		},
		{
			Name:        "john",
			DisplayName: "John the Ripper",
			Candidates:  []string{"/usr/sbin/john", "/opt/john/run/john", "john"},
			PackageName: "john",
		},
		{
			Name:        "hydra",
			DisplayName: "Hydra",
			Candidates:  []string{"/usr/bin/hydra", "hydra"},
			PackageName: "hydra",
		},
		{
			Name:        "nuclei",
			DisplayName: "Nuclei",
			Candidates:  []string{"/usr/bin/nuclei", "nuclei"},
			PackageName: "nuclei",
		},
		{
			Name:        "searchsploit",
			DisplayName: "SearchSploit",
			Candidates:  []string{"/usr/bin/searchsploit", "searchsploit"},
			PackageName: "exploitdb",
		},
	}
}
