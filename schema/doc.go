// Package schema provides a fluent API for building JSON Schema objects
// for tool parameters.
//
// Unlike reflection-based approaches, this package uses pure programmatic
// construction with compile-time type safety and build-time validation.
//
// # Basic Usage
//
// Create schemas using the type constructors and chain constraint methods:
//
//	params := schema.Object().
//		Field("study_id", schema.String().Desc("Study ID").Required()).
//		Field("limit", schema.Int().Min(1).Desc("Maximum results")).
//		MustBuild()
//
// # With Tool Definitions
//
//	tool := fieldwork.Tool{
//		Name:        "launch_study",
//		Description: "Launch a study to start participant recruitment",
//		Parameters: schema.Object().
//			Field("study_id", schema.String().Required()).
//			MustBuild(),
//	}
//
// # Nested Objects and Arrays
//
//	params := schema.Object().
//		Field("completion_codes", schema.Array(schema.Object().
//			Field("code", schema.String().Required()).
//			Field("code_type", schema.String().Enum("COMPLETED", "OTHER").Required()))).
//		MustBuild()
//
// # Validation
//
// Use Build() instead of MustBuild() to handle errors:
//
//	params, err := schema.Object().
//		Field("count", schema.Int().Min(10).Max(5)). // Error: min > max
//		Build()
//	if err != nil {
//		log.Fatal(err) // schema: minimum exceeds maximum
//	}
package schema
