package loader

// problemSchema is the JSON Schema (draft-07) for the problem document
// format, validated via gojsonschema before structural decoding: validate
// the raw bytes against an embedded schema, then unmarshal. It checks
// field names, types and array shapes; it cannot check cross-references
// (undefined literal/task/method names, ordering indices) — that is
// load's job once the document is decoded.
const problemSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["state_features", "actions", "tasks", "methods", "initial_state", "initial_abstract_task"],
  "properties": {
    "state_features": {
      "type": "array",
      "items": {"type": "string"}
    },
    "actions": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["cost", "precond", "effects"],
        "properties": {
          "cost": {"type": "integer"},
          "precond": {"type": "array", "items": {"type": "string"}},
          "effects": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["add_eff", "del_eff"],
              "properties": {
                "add_eff": {
                  "type": "object",
                  "required": ["unconditional"],
                  "properties": {
                    "unconditional": {"type": "array", "items": {"type": "string"}}
                  }
                },
                "del_eff": {
                  "type": "object",
                  "required": ["unconditional"],
                  "properties": {
                    "unconditional": {"type": "array", "items": {"type": "string"}}
                  }
                }
              }
            }
          }
        }
      }
    },
    "tasks": {
      "type": "array",
      "items": {"type": "string"}
    },
    "methods": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["task", "subtasks"],
        "properties": {
          "task": {"type": "string"},
          "subtasks": {"type": "array", "items": {"type": "string"}},
          "orderings": {
            "type": "array",
            "items": {
              "type": "array",
              "minItems": 2,
              "maxItems": 2,
              "items": {"type": "integer"}
            }
          }
        }
      }
    },
    "initial_state": {
      "type": "array",
      "items": {"type": "string"}
    },
    "initial_abstract_task": {"type": "string"},
    "goal": {},
    "mutex_groups": {},
    "further_strict_mutex_groups": {},
    "further_non_strict_mutex_groups": {},
    "known_invariants": {}
  }
}`
