package payments

import "github.com/santhosh-tekuri/jsonschema/v5"

// Processor callbacks are validated structurally before any lookup so a
// malformed delivery is rejected as 400, never surfaced as an unknown
// transaction.
const webhookSchemaJSON = `{
	"type": "object",
	"required": ["transaction_ref"],
	"properties": {
		"transaction_ref": {"type": "string", "minLength": 1}
	},
	"additionalProperties": true
}`

var webhookSchema = jsonschema.MustCompileString("webhook.json", webhookSchemaJSON)
