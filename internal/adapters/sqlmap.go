package adapters

import "strings"

const (
	sqlmapToolNameConstant       = "sqlmap"
	sqlmapTargetFieldConstant    = "target"
	sqlmapLevelFieldConstant     = "level"
	sqlmapRiskFieldConstant      = "risk"
	sqlmapTableFieldConstant     = "table"
	sqlmapURLFlagConstant        = "-u"
	sqlmapBatchFlagConstant      = "--batch"
	sqlmapDatabasesFlagConstant  = "--dbs"
	sqlmapCurrentDatabaseFlag    = "--current-db"
	sqlmapTablesFlagConstant     = "--tables"
	sqlmapDumpFlagConstant       = "--dump"
	sqlmapDatabaseFlagConstant   = "-D"
	sqlmapTableFlagConstant      = "-T"
	sqlmapLevelFlagConstant      = "--level"
	sqlmapRiskFlagConstant       = "--risk"
	sqlmapDisableColoringFlag    = "--disable-coloring"
	sqlmapTableWithoutDumpReason = "requires dump to be enabled"
	sqlmapMinimumLevelConstant   = 1
	sqlmapMaximumLevelConstant   = 5
	sqlmapMinimumRiskConstant    = 1
	sqlmapMaximumRiskConstant    = 3
)

type sqlmapParameters struct {
	Target          string `mapstructure:"target"`
	Databases       bool   `mapstructure:"databases"`
	CurrentDatabase bool   `mapstructure:"current_db"`
	Tables          bool   `mapstructure:"tables"`
	Dump            bool   `mapstructure:"dump"`
	Database        string `mapstructure:"database"`
	Table           string `mapstructure:"table"`
	Level           int    `mapstructure:"level"`
	Risk            int    `mapstructure:"risk"`
}

// SQLMapAdapter builds unattended SQL injection probes.
type SQLMapAdapter struct{}

// NewSQLMapAdapter constructs an SQLMapAdapter.
func NewSQLMapAdapter() *SQLMapAdapter {
	return &SQLMapAdapter{}
}

// ToolName returns the canonical tool name.
func (adapter *SQLMapAdapter) ToolName() string {
	return sqlmapToolNameConstant
}

// Validate reports the first parameter problem.
func (adapter *SQLMapAdapter) Validate(parameters ParameterSet) error {
	_, buildError := adapter.BuildArguments(parameters)
	return buildError
}

// BuildArguments returns the target, enumeration switches and the unattended flags.
func (adapter *SQLMapAdapter) BuildArguments(parameters ParameterSet) ([]string, error) {
	var decoded sqlmapParameters
	if decodeError := decodeParameters(sqlmapToolNameConstant, parameters, &decoded); decodeError != nil {
		return nil, decodeError
	}

	targetURL, targetError := requireWebURL(sqlmapToolNameConstant, sqlmapTargetFieldConstant, decoded.Target)
	if targetError != nil {
		return nil, targetError
	}

	database := strings.TrimSpace(decoded.Database)
	table := strings.TrimSpace(decoded.Table)
	if len(table) > 0 && !decoded.Dump {
		return nil, newValidationError(sqlmapToolNameConstant, sqlmapTableFieldConstant, sqlmapTableWithoutDumpReason)
	}

	level, levelPresent, levelError := optionalIntegerInRange(sqlmapToolNameConstant, sqlmapLevelFieldConstant, decoded.Level, sqlmapMinimumLevelConstant, sqlmapMaximumLevelConstant)
	if levelError != nil {
		return nil, levelError
	}
	risk, riskPresent, riskError := optionalIntegerInRange(sqlmapToolNameConstant, sqlmapRiskFieldConstant, decoded.Risk, sqlmapMinimumRiskConstant, sqlmapMaximumRiskConstant)
	if riskError != nil {
		return nil, riskError
	}

	arguments := []string{sqlmapURLFlagConstant, targetURL, sqlmapBatchFlagConstant}

	if decoded.Databases {
		arguments = append(arguments, sqlmapDatabasesFlagConstant)
	}
	if decoded.CurrentDatabase {
		arguments = append(arguments, sqlmapCurrentDatabaseFlag)
	}

	databaseEmitted := false
	if decoded.Tables {
		arguments = append(arguments, sqlmapTablesFlagConstant)
		if len(database) > 0 {
			arguments = append(arguments, sqlmapDatabaseFlagConstant, database)
			databaseEmitted = true
		}
	}

	if decoded.Dump {
		arguments = append(arguments, sqlmapDumpFlagConstant)
		if len(database) > 0 && !databaseEmitted {
			arguments = append(arguments, sqlmapDatabaseFlagConstant, database)
			databaseEmitted = true
		}
		if len(table) > 0 {
			arguments = append(arguments, sqlmapTableFlagConstant, table)
		}
	}

	if len(database) > 0 && !databaseEmitted {
		arguments = append(arguments, sqlmapDatabaseFlagConstant, database)
	}

	if levelPresent {
		arguments = append(arguments, sqlmapLevelFlagConstant, level)
	}
	if riskPresent {
		arguments = append(arguments, sqlmapRiskFlagConstant, risk)
	}

	return append(arguments, sqlmapDisableColoringFlag), nil
}
