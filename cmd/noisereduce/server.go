package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/spf13/pflag"

	"github.com/gavoski/audacity/internal/audio"
	"github.com/gavoski/audacity/internal/nr"
)

const maxUploadSize = 50 << 20 // 50 MB, matching the teacher's server.go

func runServe(args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ExitOnError)
	port := fs.IntP("port", "P", 8080, "server port")
	configPath := fs.StringP("config", "c", "", "optional YAML config file")
	origin := fs.String("allow-origin", "*", "value of Access-Control-Allow-Origin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/profile", withRequestLog("profile", handleProfile(cfg)))
	mux.HandleFunc("/reduce", withRequestLog("reduce", handleReduce(cfg)))

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("noise reduction server listening on %s (origin=%s)", addr, *origin)
	return http.ListenAndServe(addr, corsMiddleware(*origin, mux))
}

// corsMiddleware lets a client at allowedOrigin call these endpoints
// directly; only POST is ever exposed here since both /profile and
// /reduce are upload-and-respond handlers, unlike the teacher's single
// /denoise route.
func corsMiddleware(allowedOrigin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRequestLog wraps a handler with the per-request logging the
// teacher's handleDenoise does inline, factored out here since this
// server has more than one route to cover.
func withRequestLog(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s: %s %s from %s", route, r.Method, r.URL.Path, r.RemoteAddr)
		next(w, r)
	}
}

// handleProfile serves POST /profile: a multipart form with a "file"
// field containing a noise-only WAV. It returns the resulting
// Statistics as JSON, which the caller must pass back to /reduce (spec
// §9's two-pass protocol, adapted for a stateless HTTP handler).
func handleProfile(cfg nr.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			log.Printf("profile: failed to parse form: %v", err)
			http.Error(w, "failed to parse upload", http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "no file uploaded", http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "failed to read file", http.StatusInternalServerError)
			return
		}
		track, err := audio.ReadWAVTrack(data)
		if err != nil {
			http.Error(w, "invalid WAV file: "+err.Error(), http.StatusBadRequest)
			return
		}

		p, err := nr.NewParams(cfg, track.SampleRate())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		driver, err := nr.NewDriver(p, true)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		stats := nr.NewStatistics(track.SampleRate(), p.WindowSize, p.WindowType)
		if _, err := driver.ProcessProfile(stats, track, 0, nil); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		stats.EndTrack()
		if err := stats.Finish(); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats)
	}
}

// handleReduce serves POST /reduce: a multipart form with a "file" field
// (the WAV to reduce) and a "profile" field (the JSON Statistics object
// returned by /profile). It responds with the reduced WAV.
func handleReduce(cfg nr.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, "failed to parse upload", http.StatusBadRequest)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "no file uploaded", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "failed to read file", http.StatusInternalServerError)
			return
		}

		profileFile, _, err := r.FormFile("profile")
		if err != nil {
			http.Error(w, "no profile uploaded", http.StatusBadRequest)
			return
		}
		defer profileFile.Close()

		var stats nr.Statistics
		if err := json.NewDecoder(profileFile).Decode(&stats); err != nil {
			http.Error(w, "invalid profile JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		track, err := audio.ReadWAVTrack(data)
		if err != nil {
			http.Error(w, "invalid WAV file: "+err.Error(), http.StatusBadRequest)
			return
		}
		if track.SampleRate() != stats.SampleRate {
			http.Error(w, nr.ErrSampleRateMismatch.Error(), http.StatusBadRequest)
			return
		}

		p, err := nr.NewParams(cfg, stats.SampleRate)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if p.WindowSize != stats.WindowSize {
			http.Error(w, nr.ErrWindowSizeMismatch.Error(), http.StatusBadRequest)
			return
		}
		driver, err := nr.NewDriver(p, false)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if _, err := driver.ProcessReduce(&stats, track, track, 0, nil); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		result := audio.WriteWAV(track)
		w.Header().Set("Content-Type", "audio/wav")
		w.Header().Set("Content-Disposition", `attachment; filename="reduced.wav"`)
		w.Write(result)
	}
}
