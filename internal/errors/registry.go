package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Discovery Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryDiscovery,
		Message:  "Route tree unreadable",
		Detail:   "The routes directory could not be walked. Check that <root>/routes exists and is readable.",
	},
	"E101": {
		Category: CategoryDiscovery,
		Message:  "Conflicting endpoint kinds",
		Detail:   "A route directory contains both view artifacts (+view.*) and API artifacts (+get.go, +post.go, ...). Split them into separate directories.",
	},
	"E102": {
		Category: CategoryDiscovery,
		Message:  "Code artifact has no catalog binding",
		Detail:   "A +view.go, +<method>.go, +root.go or +error.go file exists but the catalog has no function for it.",
	},
	"E103": {
		Category: CategoryDiscovery,
		Message:  "Artifact read failed",
		Detail:   "A script, stylesheet or root artifact could not be read.",
	},
	"E104": {
		Category: CategoryDiscovery,
		Message:  "Unroutable path segment",
		Detail:   "A route directory name contains '{', '}', '*' or ':', which the HTTP router would treat as a pattern instead of a literal segment.",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "pagetree.json could not be read or parsed.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The configured port is outside the 0-65535 range.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration not found",
		Detail:   "No pagetree.json was found in the directory or any parent.",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Build failed",
		Detail:   "The application could not be compiled or started. The compiler output follows.",
	},
	"E145": {
		Category: CategoryCLI,
		Message:  "Unknown template",
		Detail:   "The requested project template does not exist.",
	},
	"E146": {
		Category: CategoryCLI,
		Message:  "Directory not empty",
		Detail:   "A new project can only be created in a missing or empty directory.",
	},

	// ============================================
	// Codegen Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryCodegen,
		Message:  "Missing export",
		Detail:   "A code artifact does not export the function its file name requires.",
	},
	"E151": {
		Category: CategoryCodegen,
		Message:  "Source parse failed",
		Detail:   "A code artifact is not valid Go source.",
	},

	// ============================================
	// Request Errors (E200)
	// ============================================

	"E200": {
		Category: CategoryRequest,
		Message:  "Missing endpoint",
		Detail:   "The requested path has no registry entry.",
	},

	// ============================================
	// Handler Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryHandler,
		Message:  "Handler failed",
		Detail:   "A view or API handler returned an error.",
	},
	"E202": {
		Category: CategoryHandler,
		Message:  "Payload provider failed",
		Detail:   "The configured payload provider returned an error before the handler ran.",
	},
	"E203": {
		Category: CategoryHandler,
		Message:  "Handler panicked",
		Detail:   "A user function panicked while serving the request.",
	},

	// ============================================
	// Pipeline Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryPipeline,
		Message:  "Document parse failed",
	},
	"E301": {
		Category: CategoryPipeline,
		Message:  "Minification failed",
	},
	"E302": {
		Category: CategoryPipeline,
		Message:  "Document serialization failed",
	},
	"E303": {
		Category: CategoryPipeline,
		Message:  "Layout failed",
		Detail:   "The root layout or error template returned an error.",
	},
}

// Codes returns all registered error codes in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
