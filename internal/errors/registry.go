package errors

import "sort"

// Registered error codes.
const (
	CodeAlreadyMounted   = "VT101"
	CodeAlreadyUnmounted = "VT102"
	CodeStaleOrUnmounted = "VT103"

	CodeAmbiguousMatch = "VT201"

	CodeInvalidNodeType = "VT301"
	CodePropNotFunction = "VT302"
	CodeMissingProp     = "VT303"
	CodeTriggerArgs     = "VT304"

	CodeGoldenMismatch = "VT401"
	CodeArchiveFailure = "VT402"

	CodeConfigNotFound = "VT501"
	CodeConfigInvalid  = "VT502"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Lifecycle (VT100-VT199)
	// ============================================

	CodeAlreadyMounted: {
		Category:   CategoryState,
		Message:    "Attempted to mount a node that was already mounted",
		Suggestion: "Call Unmount() before mounting the same root again.",
	},
	CodeAlreadyUnmounted: {
		Category:   CategoryState,
		Message:    "You attempted to unmount a node that was already unmounted",
		Suggestion: "Check Mounted() before calling Unmount(), or use Destroy() which is safe to repeat.",
	},
	CodeStaleOrUnmounted: {
		Category:   CategoryState,
		Message:    "Attempted to operate on a mounted tree, but the component is no longer mounted",
		Suggestion: "Mount() the root again before querying it.",
	},

	// ============================================
	// Queries (VT200-VT299)
	// ============================================

	CodeAmbiguousMatch: {
		Category:   CategoryQuery,
		Message:    "You can't call GetDOMNode() on an element that returns multiple HTML elements",
		Suggestion: "Call GetDOMNodes() to retrieve all of the elements instead.",
	},

	// ============================================
	// Arguments (VT300-VT399)
	// ============================================

	CodeInvalidNodeType: {
		Category: CategoryArgument,
		Message:  "Tried to print an invalid node",
	},
	CodePropNotFunction: {
		Category:   CategoryArgument,
		Message:    "Triggered prop is not a function",
		Suggestion: "Only function-valued props such as event handlers can be triggered.",
	},
	CodeMissingProp: {
		Category: CategoryArgument,
		Message:  "Triggered prop does not exist on the node",
	},
	CodeTriggerArgs: {
		Category:   CategoryArgument,
		Message:    "Trigger arguments do not match the handler signature",
		Suggestion: "Pass one argument per handler parameter, assignable to its type.",
	},

	// ============================================
	// Archive (VT400-VT499)
	// ============================================

	CodeGoldenMismatch: {
		Category:   CategoryArchive,
		Message:    "Snapshot does not match the stored golden snapshot",
		Suggestion: "Re-run with VANGOTEST_UPDATE=1 to accept the new snapshot.",
	},
	CodeArchiveFailure: {
		Category: CategoryArchive,
		Message:  "Snapshot archive operation failed",
	},

	// ============================================
	// Configuration (VT500-VT599)
	// ============================================

	CodeConfigNotFound: {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create vangotest.json (or vangotest.yaml) in the project root, or pass --config.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
}

// GetAllCodes returns every registered code, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template registered for code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
