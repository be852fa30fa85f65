package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pdtechteam/partyquiz/clients/quiz_api_client"
	"github.com/pdtechteam/partyquiz/internal/protocol"
	"github.com/pdtechteam/partyquiz/internal/session"
	"github.com/pdtechteam/partyquiz/internal/transport"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	configPath := flag.String("config", "config.yaml", "path to yaml config")
	flag.Parse()

	config := resolveConfig(*configPath)
	if config.Player.Name == "" {
		log.Fatal().Msg("PLAYER_NAME is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := quiz_api_client.NewQuizApiClient(config.API.BaseURL)

	code := config.Player.SessionCode
	if code == "" {
		if config.Player.QuizID == 0 {
			log.Fatal().Msg("either SESSION_CODE or QUIZ_ID is required")
		}
		created, err := api.CreateSession(ctx, config.Player.QuizID)
		if err != nil {
			log.Fatal().Err(err).Int("quiz_id", config.Player.QuizID).Msg("failed to create session")
		}
		code = created.Code
		log.Info().Str("code", code).Str("quiz", created.QuizTitle).Msg("created session")
	}

	tcfg := transport.DefaultConfig()
	if config.Realtime.HeartbeatSeconds > 0 {
		tcfg.HeartbeatInterval = time.Duration(config.Realtime.HeartbeatSeconds * float64(time.Second))
	}
	if config.Realtime.MaxReconnectAttempts > 0 {
		tcfg.MaxReconnectAttempts = config.Realtime.MaxReconnectAttempts
	}

	wsURL := fmt.Sprintf("%s/ws/game/%s/", config.Realtime.BaseURL, code)
	tr := transport.New(wsURL, tcfg)

	machine := session.NewMachine(tr, config.Player.Name)
	machine.OnPhaseChange = func(st session.State) {
		ev := log.Info().Str("phase", string(st.Phase))
		if st.CurrentQuestion != nil {
			ev = ev.Str("question", st.CurrentQuestion.Text)
		}
		if st.LastResult != nil {
			ev = ev.Bool("correct", st.LastResult.IsCorrect).Int("points", st.LastResult.PointsEarned)
		}
		ev.Msg("phase change")

		if st.Phase == session.PhaseFinal {
			for key, award := range st.Awards {
				log.Info().Str("award", key).Str("player", award.Name).Str("emoji", award.Emoji).Msg("award")
			}
			for _, entry := range st.Leaderboard {
				log.Info().Int("position", entry.Position).Str("player", entry.Name).Int("score", entry.Score).Msg("final standing")
			}
			cancel()
		}
	}
	machine.OnConnectionStateChange = func(cs session.ConnectionState) {
		switch {
		case cs.Failed:
			log.Error().Msg("connection lost for good")
			cancel()
		case cs.Reconnecting:
			log.Warn().Int("attempt", cs.Attempt).Int("max_attempts", cs.MaxAttempts).Msg("reconnecting")
		case cs.Connected:
			log.Info().Msg("connected")
		default:
			log.Warn().Msg("disconnected")
		}
	}
	machine.OnServerError = func(msg string) {
		log.Warn().Str("message", msg).Msg("server rejected a command")
	}
	machine.Attach(tr)
	defer machine.Close()

	// Surface other participants' reactions; the machine does not track them.
	tr.On(protocol.EventPlayerReaction, func(ev protocol.Event) {
		if p, err := protocol.ParsePayload(ev); err == nil {
			if r, ok := p.(protocol.PlayerReactionPayload); ok {
				log.Info().Str("player", r.PlayerName).Str("emoji", r.Emoji).Msg("reaction")
			}
		}
	})

	log.Info().
		Str("url", wsURL).
		Str("player", config.Player.Name).
		Str("code", code).
		Msg("joining session")

	tr.Connect(ctx)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	tr.Disconnect()
}
