package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
}

// Error codes.
const (
	CodeSlotMismatch     = "E101"
	CodeHoleMismatch     = "E102"
	CodeMarkerInName     = "E103"
	CodeSigilNeedsHole   = "E104"
	CodeEmptyTemplate    = "E105"
	CodeParseFailed      = "E106"
	CodeMissingComponent = "E201"
	CodeRegionFailed     = "E202"
	CodeCleanupFailed    = "E203"
	CodeInvalidHandler   = "E204"
	CodeInvalidRef       = "E205"
	CodeComponentFailed  = "E206"
	CodeInvalidConfig    = "E301"
	CodeDataFile         = "E302"
	CodeExportFailed     = "E303"
	CodeTemplateFile     = "E304"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Template construction (E1xx)
	CodeSlotMismatch: {
		Category: CategoryTemplate,
		Message:  "Slot count mismatch",
	},
	CodeHoleMismatch: {
		Category: CategoryTemplate,
		Message:  "Hole marker lost during parsing",
	},
	CodeMarkerInName: {
		Category: CategoryTemplate,
		Message:  "Value slot in tag or attribute name",
	},
	CodeSigilNeedsHole: {
		Category: CategoryTemplate,
		Message:  "Bound attribute requires a single value slot",
	},
	CodeEmptyTemplate: {
		Category: CategoryTemplate,
		Message:  "Template has no fragments",
	},
	CodeParseFailed: {
		Category: CategoryTemplate,
		Message:  "Template could not be parsed",
	},

	// Runtime (E2xx), all fail-soft
	CodeMissingComponent: {
		Category: CategoryRuntime,
		Message:  "Component not registered",
	},
	CodeRegionFailed: {
		Category: CategoryRuntime,
		Message:  "Dynamic region recomputation failed",
	},
	CodeCleanupFailed: {
		Category: CategoryRuntime,
		Message:  "Cleanup callback failed",
	},
	CodeInvalidHandler: {
		Category: CategoryRuntime,
		Message:  "Unsupported event handler type",
	},
	CodeInvalidRef: {
		Category: CategoryRuntime,
		Message:  "Unsupported ref target",
	},
	CodeComponentFailed: {
		Category: CategoryRuntime,
		Message:  "Component failed to mount",
	},

	// Configuration and CLI (E3xx)
	CodeInvalidConfig: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	CodeDataFile: {
		Category: CategoryCLI,
		Message:  "Cannot read data file",
	},
	CodeExportFailed: {
		Category: CategoryCLI,
		Message:  "Export failed",
	},
	CodeTemplateFile: {
		Category: CategoryCLI,
		Message:  "Cannot read template file",
	},
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
