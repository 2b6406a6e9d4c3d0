package planner

import "errors"

var (
	// ErrInvalidAPIKey indicates an invalid or missing API key.
	ErrInvalidAPIKey = errors.New("invalid or missing API key")

	// ErrClientCreationFailed indicates a failure in creating the API client.
	ErrClientCreationFailed = errors.New("failed to create API client")

	// ErrPlanningFailed indicates the model call failed.
	ErrPlanningFailed = errors.New("failed to plan operations")

	// ErrEmptyResponse indicates the model returned no text.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrInvalidPlan indicates the model output is not a JSON array of operations.
	ErrInvalidPlan = errors.New("invalid plan")

	// ErrUnresolvedReference indicates a "$name" parameter with no earlier matching ref.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrEmptyInstruction indicates a blank instruction.
	ErrEmptyInstruction = errors.New("empty instruction")
)
