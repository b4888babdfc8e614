package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Contract Violations (E001-E099)
	// ============================================

	"E001": {
		Category:   CategoryContract,
		Message:    "Reader not found",
		Detail:     "The reader token is stale, was already destroyed, or belongs to a different node.",
		Suggestion: "Pair every CreateReader with exactly one DestroyReader on the same signal",
	},
	"E002": {
		Category:   CategoryContract,
		Message:    "Unwrapped an unchanged result",
		Detail:     "MustChanged was called on a result that carries no value.",
		Suggestion: "Check IsChanged first, or use a fresh reader when an initial value is required",
	},
	"E003": {
		Category: CategoryContract,
		Message:  "Dependency edge not found",
		Detail:   "An edge between two nodes was removed but never added.",
	},
	"E004": {
		Category: CategoryContract,
		Message:  "Empty node slot",
		Detail:   "The node index refers to a slot that was never filled or has been removed.",
	},
	"E005": {
		Category:   CategoryContract,
		Message:    "Signal used after dispose",
		Detail:     "A signal handle was used after Dispose was called on it.",
		Suggestion: "Clone the handle if it must outlive another owner",
	},
	"E006": {
		Category: CategoryContract,
		Message:  "Dirty cause is not a parent",
		Detail:   "A node was dirtied through a node it does not depend on.",
	},
	"E007": {
		Category: CategoryContract,
		Message:  "Parent wrapper closed twice",
	},
	"E008": {
		Category:   CategoryContract,
		Message:    "View key not found",
		Detail:     "A Removed change refers to an item the materialized view does not contain.",
		Suggestion: "Make sure the change log only removes items it previously added",
	},
	"E009": {
		Category:   CategoryContract,
		Message:    "Negative view index",
		Detail:     "The index function of an indexed vector view returned a negative position.",
		Suggestion: "Return positions starting at 0",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must end in .json or .toml.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "Ports must be between 1 and 65535.",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid log level",
		Detail:   "Log level must be one of debug, info, warn, error.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
	},

	// ============================================
	// CLI Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryCLI,
		Message:  "Unknown benchmark scenario",
	},
	"E161": {
		Category: CategoryCLI,
		Message:  "Invalid benchmark parameters",
	},
	"E162": {
		Category: CategoryCLI,
		Message:  "Invalid command line",
	},
	"E163": {
		Category:   CategoryCLI,
		Message:    "Unknown error format",
		Suggestion: "Use --error-format text, compact or json",
	},

	// ============================================
	// Inspector Errors (E180-E199)
	// ============================================

	"E180": {
		Category: CategoryInspect,
		Message:  "Inspector server failed",
	},
	"E181": {
		Category: CategoryInspect,
		Message:  "Unknown counter operation",
	},
}
