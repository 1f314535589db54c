package main

import (
	"TUI_youtube_pip/infrastructure/auth"
	"TUI_youtube_pip/infrastructure/config"
	"TUI_youtube_pip/infrastructure/logger"
	"TUI_youtube_pip/infrastructure/provider"
	"TUI_youtube_pip/infrastructure/system"
	"TUI_youtube_pip/internal/handler/server"
	"TUI_youtube_pip/internal/handler/tui"

	"TUI_youtube_pip/infrastructure/token_manager"
	"TUI_youtube_pip/internal/core/ports"
	"TUI_youtube_pip/internal/core/usecases"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}

// run owns every resource so deferred cleanup happens before main exits.
func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	preferences := token_manager.NewPreferenceService(cfg.PreferencesFile)
	debug, prefsErr := startupDebug(cfg, preferences)

	appLogger, err := logger.NewFileLogger(cfg.LogDir, "youtube_pip_tui", debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()
	appLogger.Info("Application starting...")
	if prefsErr != nil {
		appLogger.Error("Failed to load preferences", prefsErr)
	}

	tokenService := token_manager.NewTokenService(cfg.TokenFile)

	var authService auth.AuthenticationService
	if cfg.HasCredentials() {
		authService, err = auth.NewAuthenticationService(
			cfg.Scopes,
			auth.Credentials{
				ClientID:         cfg.ClientID,
				ClientSecret:     cfg.ClientSecret,
				ClientSecretFile: cfg.ClientSecretFile,
			},
			cfg.RedirectURL(),
		)
		if err != nil {
			appLogger.Error("Failed to initialize auth service", err)
			return fmt.Errorf("failed to initialize auth service: %w", err)
		}
	} else {
		appLogger.Warning("No OAuth client configured, playlist browsing is disabled")
		authService = auth.NewUnconfiguredService()
	}

	session := usecases.NewSessionUseCase(authService, tokenService, appLogger)
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if state := session.Restore(ctx); state.IsAuthenticated {
		appLogger.Info("Restored stored session")
	}

	youtubeProvider, err := provider.NewYoutubeProvider(ctx, session, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize YouTube client", err)
		return fmt.Errorf("failed to initialize YouTube client: %w", err)
	}

	playerServer := server.NewPlayerServer(cfg.PlayerAddr, appLogger)
	if err := playerServer.Start(); err != nil {
		// the bare embed URL still works without the local page
		appLogger.Error("Player page server unavailable", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := playerServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Failed to stop player page server", err)
		}
	}()

	browser := system.NewBrowser()

	playlistUseCase := usecases.NewPlaylistUseCase(youtubeProvider, appLogger, usecases.DefaultRetryConfig)
	playerUseCase := usecases.NewPlayerUseCase(
		youtubeProvider,
		session,
		system.NewClipboard(),
		browser,
		playerServer.URL,
		appLogger,
	)

	var initialURL string
	if len(os.Args) > 1 {
		initialURL = os.Args[1]
	}

	initialModel := tui.NewAppModel(
		session,
		playlistUseCase,
		playerUseCase,
		server.NewCallbackHandler(appLogger),
		browser,
		appLogger,
		tui.Options{
			CallbackAddr: cfg.CallbackAddr,
			CallbackPath: cfg.CallbackPath,
			CanSignIn:    cfg.HasCredentials(),
			InitialURL:   initialURL,
			Preferences:  preferences,
		},
	)

	p := tea.NewProgram(initialModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		appLogger.Error("Error running TUI program", err)
		return fmt.Errorf("error running TUI program: %w", err)
	}
	appLogger.Info("Application finished.")

	return nil
}

// startupDebug prefers an explicit YTPIP_DEBUG over the toggle saved last run.
func startupDebug(cfg config.Config, preferences ports.PreferencesPort) (bool, error) {
	if cfg.DebugSet {
		return cfg.Debug, nil
	}

	prefs, err := preferences.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg.Debug, nil
		}
		return cfg.Debug, err
	}

	return prefs.Debug, nil
}
