package quiz_api_client

const (
	QuizzesEndpoint      = "/api/quizzes/"
	GenerateQuizEndpoint = "/api/quizzes/generate/"
	SessionsEndpoint     = "/api/sessions/"
	PlayersEndpoint      = "/api/players/"
)
