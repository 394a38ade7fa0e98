package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	ai "github.com/spetersoncode/fieldwork"
	"github.com/spetersoncode/fieldwork/internal/survey"
	"github.com/spetersoncode/fieldwork/schema"
	"github.com/spetersoncode/fieldwork/tool"
)

// newToolRegistry builds the registry of survey platform tools backed by
// the given API client.
func newToolRegistry(client *survey.Client) *tool.Registry {
	return tool.NewRegistry().Add(
		tool.WithHandler(
			"create_study",
			"Create a new study on the survey platform. Requires study configuration including name, description, reward, duration, external study URL, prolific_id_option, and completion_codes.",
			createStudySchema,
			createStudy(client),
		),
		tool.WithHandler(
			"get_study",
			"Get details of a specific study by ID.",
			studyIDSchema,
			getStudy(client),
		),
		tool.WithHandler(
			"update_study",
			"Update a study's parameters. Provide study_id and the fields to update.",
			updateStudySchema,
			updateStudy(client),
		),
		tool.WithHandler(
			"launch_study",
			"Launch a study to start participant recruitment.",
			studyIDSchema,
			launchStudy(client),
		),
		tool.WithHandler(
			"get_results",
			"Get all submissions/results for a completed or in-progress study.",
			studyIDSchema,
			getResults(client),
		),
		tool.WithHandler(
			"get_study_status",
			"Get the current status of a study including completion rate and places taken.",
			studyIDSchema,
			getStudyStatus(client),
		),
		tool.WithHandler(
			"list_studies",
			"List all studies. Optionally limit the number of results.",
			listStudiesSchema,
			listStudies(client),
		),
		tool.WithHandler(
			"delete_study",
			"Delete a study. Only draft studies can be deleted.",
			studyIDSchema,
			deleteStudy(client),
		),
		tool.WithHandler(
			"create_test_participant",
			"Create a test participant account for testing studies without consuming credits. Test participants cannot cash out earnings.",
			createTestParticipantSchema,
			createTestParticipant(client),
		),
		tool.WithHandler(
			"launch_test_study",
			"Launch a study in test mode (doesn't consume credits). Requires at least one test participant to exist and the study must be in draft status.",
			launchTestStudySchema,
			launchTestStudy(client),
		),
	)
}

var createStudySchema = schema.Object().
	Field("name", schema.String().
		Desc("Public name or title of the study (visible to participants)").
		Required()).
	Field("description", schema.String().
		Desc("Study description for participants to read before starting").
		Required()).
	Field("reward", schema.Int().
		Desc("Reward amount in cents (e.g., 100 = $1.00)").
		Required()).
	Field("total_available_places", schema.Int().
		Desc("Number of participants needed").
		Required()).
	Field("estimated_completion_time", schema.Int().
		Desc("Estimated completion time in minutes").
		Required()).
	Field("external_study_url", schema.String().
		Desc("URL to the external study. Can include {{%PROLIFIC_PID%}}, {{%STUDY_ID%}}, {{%SESSION_ID%}} placeholders").
		Required()).
	Field("prolific_id_option", schema.String().
		Desc("How to collect the participant ID. 'url_parameters' (recommended) passes the ID in the URL, 'question' asks in the survey, 'not_required' skips collection").
		Enum("question", "url_parameters", "not_required").
		Default("url_parameters")).
	Field("completion_codes", schema.Array(schema.Object().
		Field("code", schema.String().
			Desc("The completion code participants will enter").
			Required()).
		Field("code_type", schema.String().
			Desc("Type/category of the completion code").
			Enum("COMPLETED", "FAILED_ATTENTION_CHECK", "FOLLOW_UP_STUDY", "GIVE_BONUS", "INCOMPATIBLE_DEVICE", "NO_CONSENT", "OTHER", "FIXED_SCREENOUT").
			Required()).
		Field("actions", schema.Array(schema.Object().
			Field("action", schema.String().
				Desc("Action to perform").
				Enum("AUTOMATICALLY_APPROVE", "MANUALLY_REVIEW", "REQUEST_RETURN", "ADD_TO_PARTICIPANT_GROUP", "REMOVE_FROM_PARTICIPANT_GROUP"))).
			Desc("Actions to take when this code is used").
			Required())).
		Desc("Array of completion code objects. If not provided, defaults to a single 'COMPLETED' code with MANUALLY_REVIEW action.")).
	Field("internal_name", schema.String().
		Desc("Internal name for the study (optional, not visible to participants)")).
	MustBuild()

var studyIDSchema = schema.Object().
	Field("study_id", schema.String().Desc("Study ID").Required()).
	MustBuild()

var updateStudySchema = schema.Object().
	Field("study_id", schema.String().Desc("Study ID").Required()).
	Field("updates", schema.Object().
		Desc(`Fields to update (e.g., {"name": "New Title", "reward": 150})`).
		Required()).
	MustBuild()

var listStudiesSchema = schema.Object().
	Field("limit", schema.Int().Desc("Maximum number of studies to return (optional)")).
	MustBuild()

var createTestParticipantSchema = schema.Object().
	Field("email", schema.String().
		Desc("Email address for the test participant (cannot belong to an existing account)").
		Required()).
	MustBuild()

var launchTestStudySchema = schema.Object().
	Field("study_id", schema.String().Desc("Study ID (must be in draft status)").Required()).
	MustBuild()

// defaultCompletionCodes is applied when a study is created without any.
var defaultCompletionCodes = []any{
	map[string]any{
		"code":      "COMPLETED",
		"code_type": "COMPLETED",
		"actions":   []any{map[string]any{"action": "MANUALLY_REVIEW"}},
	},
}

func createStudy(client *survey.Client) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		config := call.ParsedArguments()

		if _, ok := config["prolific_id_option"]; !ok {
			config["prolific_id_option"] = "url_parameters"
		}
		if codes, ok := config["completion_codes"].([]any); !ok || len(codes) == 0 {
			config["completion_codes"] = defaultCompletionCodes
		}

		result, err := client.CreateStudy(ctx, config)
		if err != nil {
			return "", describeError(err)
		}
		return "Study created successfully:\n" + indentJSON(result), nil
	}
}

func getStudy(client *survey.Client) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		studyID, err := requireString(call, "study_id")
		if err != nil {
			return "", err
		}
		result, err := client.GetStudy(ctx, studyID)
		if err != nil {
			return "", describeError(err)
		}
		return "Study details:\n" + indentJSON(result), nil
	}
}

func updateStudy(client *survey.Client) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		studyID, err := requireString(call, "study_id")
		if err != nil {
			return "", err
		}
		updates, ok := call.ParsedArguments()["updates"].(map[string]any)
		if !ok || len(updates) == 0 {
			return "", fmt.Errorf("updates is required")
		}
		result, err := client.UpdateStudy(ctx, studyID, updates)
		if err != nil {
			return "", describeError(err)
		}
		return "Study updated successfully:\n" + indentJSON(result), nil
	}
}

func launchStudy(client *survey.Client) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		studyID, err := requireString(call, "study_id")
		if err != nil {
			return "", err
		}
		result, err := client.LaunchStudy(ctx, studyID)
		if err != nil {
			return "", describeError(err)
		}
		return "Study launched successfully:\n" + indentJSON(result), nil
	}
}

func getResults(client *survey.Client) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		studyID, err := requireString(call, "study_id")
		if err != nil {
			return "", err
		}
		result, err := client.Submissions(ctx, studyID)
		if err != nil {
			return "", describeError(err)
		}
		return "Study submissions:\n" + indentJSON(result), nil
	}
}

func getStudyStatus(client *survey.Client) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		studyID, err := requireString(call, "study_id")
		if err != nil {
			return "", err
		}
		status, err := client.StudyStatus(ctx, studyID)
		if err != nil {
			return "", describeError(err)
		}
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return "", err
		}
		return "Study status:\n" + string(data), nil
	}
}

func listStudies(client *survey.Client) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		limit := 0
		if v, ok := call.ParsedArguments()["limit"].(float64); ok {
			limit = int(v)
		}
		result, err := client.ListStudies(ctx, limit)
		if err != nil {
			return "", describeError(err)
		}
		return "Studies:\n" + indentJSON(result), nil
	}
}

func deleteStudy(client *survey.Client) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		studyID, err := requireString(call, "study_id")
		if err != nil {
			return "", err
		}
		if err := client.DeleteStudy(ctx, studyID); err != nil {
			return "", describeError(err)
		}
		return fmt.Sprintf("Study %s deleted successfully", studyID), nil
	}
}

func createTestParticipant(client *survey.Client) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		email, err := requireString(call, "email")
		if err != nil {
			return "", err
		}
		result, err := client.CreateTestParticipant(ctx, email)
		if err != nil {
			return "", describeError(err)
		}
		return "Test participant created successfully:\n" + indentJSON(result), nil
	}
}

func launchTestStudy(client *survey.Client) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		studyID, err := requireString(call, "study_id")
		if err != nil {
			return "", err
		}
		result, err := client.LaunchTestStudy(ctx, studyID)
		if err != nil {
			return "", describeError(err)
		}
		return "Test study launched successfully:\n" + indentJSON(result), nil
	}
}

func requireString(call ai.ToolCall, key string) (string, error) {
	value, _ := call.ParsedArguments()[key].(string)
	if value == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}

// describeError expands API errors with status and response body so the
// model can see what the platform rejected.
func describeError(err error) error {
	var apiErr *survey.APIError
	if errors.As(err, &apiErr) {
		if len(apiErr.Body) > 0 {
			return fmt.Errorf("survey API error (status %d): %s", apiErr.StatusCode, apiErr.Body)
		}
		return fmt.Errorf("survey API error (status %d)", apiErr.StatusCode)
	}
	return err
}

func indentJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
