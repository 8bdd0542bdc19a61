package predictor

// artifactSchema is the JSON Schema every pipeline artifact must satisfy
// before it is decoded.
const artifactSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "version", "columns", "intercept", "numeric", "categorical"],
  "properties": {
    "name":    {"type": "string", "minLength": 1},
    "version": {"type": "string", "minLength": 1},
    "target":  {"type": "string"},
    "columns": {
      "type": "array",
      "minItems": 1,
      "uniqueItems": true,
      "items": {"type": "string", "minLength": 1}
    },
    "intercept": {"type": "number"},
    "numeric": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["mean", "scale", "coef"],
        "properties": {
          "mean":  {"type": "number"},
          "scale": {"type": "number", "exclusiveMinimum": 0},
          "coef":  {"type": "number"}
        },
        "additionalProperties": false
      }
    },
    "categorical": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["levels"],
        "properties": {
          "levels": {
            "type": "object",
            "additionalProperties": {"type": "number"}
          }
        },
        "additionalProperties": false
      }
    },
    "drop": {
      "type": "array",
      "uniqueItems": true,
      "items": {"type": "string"}
    }
  },
  "additionalProperties": false
}`
