package gen

// Config defines the naming generator configuration.
// Place this in a file named `config.go` in your model directory:
//
//	var _ = gen.Config{
//	    OutPath:          "generated",
//	    PhysicalStrategy: "snake",
//	}
//
// The file is read from source and never executed.
type Config struct {
	// OutPath specifies the output directory for generated files.
	// Relative to the model directory. Default: "generated"
	OutPath string

	// IncludeStructs specifies which structs to process.
	// Supports string names or type instances: []any{"User", &Post{}}
	// If empty, all structs with db tags are processed.
	IncludeStructs []any

	// ExcludeStructs specifies which structs to skip.
	// Supports string names: []any{"BaseModel"}
	ExcludeStructs []any

	// ImplicitStrategy names the first naming stage: "jpa" (default) or "field".
	ImplicitStrategy string

	// PhysicalStrategy names the second naming stage: "snake" (default),
	// "standard" or "lower".
	PhysicalStrategy string

	// Dialect selects the DDL dialect: "sqlite3" (default), "mysql" or "postgres".
	Dialect string
}

// ConfigFileName is the convention filename for configuration.
const ConfigFileName = "config.go"
