package server

import (
	"TUI_youtube_pip/internal/core/domain"
	"TUI_youtube_pip/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

const shutdownTimeout = 5 * time.Second

type CallbackHandler interface {
	// ListenAndServe binds addr and forwards the first request on
	// callbackPath to resultChan. The server shuts itself down after that
	// request or when ctx is done.
	ListenAndServe(
		ctx context.Context,
		addr,
		callbackPath string,
		resultChan chan<- domain.CallbackParams,
	) (*http.Server, error)
}

type callbackHandlerImpl struct {
	logger ports.LoggerPort
}

func NewCallbackHandler(logger ports.LoggerPort) CallbackHandler {
	return &callbackHandlerImpl{
		logger: logger,
	}
}

func (h *callbackHandlerImpl) ListenAndServe(
	ctx context.Context,
	addr string,
	callbackPath string,
	resultChan chan<- domain.CallbackParams,
) (*http.Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not bind callback server on %s: %w", addr, err)
	}

	mux := http.NewServeMux()

	httpServer := &http.Server{
		Addr:              listener.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	handlerDone := make(chan struct{})
	var once sync.Once

	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		handled := false
		once.Do(func() {
			handled = true
			defer close(handlerDone)

			params := callbackParams(r)
			h.respond(w, params)

			select {
			case resultChan <- params:
			case <-ctx.Done():
			}
		})

		if !handled {
			http.Error(w, "This sign-in link was already used. You can close this tab.", http.StatusGone)
		}
	})

	go func() {
		h.logger.Info("Starting callback server on " + httpServer.Addr + callbackPath)

		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("callback server stopped unexpectedly", err)
		}

		h.logger.Debug("Callback server: Serve returned")
	}()

	go func() {
		select {
		case <-handlerDone:
			h.logger.Debug("Callback server: request handled, shutting down")
		case <-ctx.Done():
			h.logger.Debug("Callback server: context done (" + ctx.Err().Error() + "), shutting down")
		}

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("error while shutting down callback server", err)
		} else {
			h.logger.Info("Callback server stopped")
		}
	}()

	return httpServer, nil
}

func callbackParams(r *http.Request) domain.CallbackParams {
	query := r.URL.Query()

	return domain.CallbackParams{
		State:            query.Get("state"),
		Code:             query.Get("code"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}
}

// respond tells the browser tab what happened; the session decides whether
// the code is actually accepted.
func (h *callbackHandlerImpl) respond(w http.ResponseWriter, params domain.CallbackParams) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	switch {
	case params.Error != "":
		h.logger.Warning("OAuth provider returned error: " + params.Error)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "Authorization failed or was cancelled. You can close this tab.")
	case params.Code == "":
		h.logger.Warning("Callback request without authorization code")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "Authorization code not found in the request.")
	default:
		h.logger.Info("Authorization code received")
		fmt.Fprint(w, "Authorization received! You can close this tab and return to the terminal.")
	}
}
