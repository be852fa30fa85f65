package quiz_api_client

import (
	"github.com/pdtechteam/partyquiz/clients"
)

type QuizApiClient struct {
	*clients.BaseClient
}

func NewQuizApiClient(baseURL string) *QuizApiClient {
	client := &QuizApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")

	return client
}
