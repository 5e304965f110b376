package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeInsufficientPoints       = "INSUFFICIENT_POINTS"
	CodeRequirementNotMet        = "REQUIREMENT_NOT_MET"
	CodeInvalidDieSize           = "INVALID_DIE_SIZE"
	CodeDuplicateSelection       = "DUPLICATE_SELECTION"
	CodeCompanionConflict        = "COMPANION_CONFLICT"
	CodeAdvancementRuleViolation = "ADVANCEMENT_RULE_VIOLATION"
	CodeInvalidMutation          = "INVALID_MUTATION"
	CodeCreationIncomplete       = "CREATION_INCOMPLETE"
	CodeInvalidReference         = "INVALID_REFERENCE"
	CodeInvalidConfig            = "INVALID_CONFIG"
	CodeInvalidFilter            = "INVALID_FILTER"
	CodeCharacterEmptyName       = "CHARACTER_EMPTY_NAME"
	CodeCharacterEmptyID         = "CHARACTER_EMPTY_ID"
	CodeNotFound                 = "NOT_FOUND"
	CodeAlreadyExists            = "ALREADY_EXISTS"
)

var enUSCatalog = &Catalog{
	locale: BaseLocale,
	messages: map[Code]string{
		// Rules engine rejections
		CodeInsufficientPoints:       "Not enough {{.Pool}} points: {{.Cost}} needed, {{.Available}} available",
		CodeRequirementNotMet:        "Requirements not met for {{.Entity}}: {{.Unmet}}",
		CodeInvalidDieSize:           "Invalid die {{.Die}}",
		CodeDuplicateSelection:       "{{.Entity}} is already selected",
		CodeCompanionConflict:        "{{.Entity}} cannot be taken together with {{.Companion}}",
		CodeAdvancementRuleViolation: "This advance is not allowed: {{.Reason}}",
		CodeInvalidMutation:          "This change is not allowed: {{.Reason}}",
		CodeCreationIncomplete:       "Character creation is not complete: {{.Unmet}}",

		// Reference data errors
		CodeInvalidReference: "Reference data is invalid: {{.Reason}}",
		CodeInvalidConfig:    "Rule configuration is invalid: {{.Reason}}",
		CodeInvalidFilter:    "Filter is invalid: {{.Reason}}",

		// Character errors
		CodeCharacterEmptyName: "Character name cannot be empty",
		CodeCharacterEmptyID:   "Character ID is required",

		// Storage errors
		CodeNotFound:      "{{.Kind}} {{.ID}} was not found",
		CodeAlreadyExists: "{{.Kind}} {{.ID}} already exists",
	},
}
