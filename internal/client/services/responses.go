// Package services contains the resource services of the Echoline client:
// thin mappers from domain operations to gateway calls. They hold no state,
// do no retries and no caching; they are the seam the synchronizer calls
// through, so its logic is testable against fakes.
package services

import "github.com/dmitrijs2005/echoline/internal/client/models"

// Response envelopes used by the backend.

type echoesResponse struct {
	Echoes []models.Echo `json:"echoes"`
}

type echoResponse struct {
	Echo models.Echo `json:"echo"`
}

type usersResponse struct {
	Users []models.UserProfile `json:"users"`
}

type userResponse struct {
	User models.UserProfile `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}
