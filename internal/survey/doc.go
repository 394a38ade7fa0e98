// Package survey provides a REST client for the survey platform API.
//
// The client covers the study lifecycle used by the tool host: creating
// and updating draft studies, publishing them, inspecting submissions,
// and the test-mode workflow for dry runs that do not consume credits.
package survey
