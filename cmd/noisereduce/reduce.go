package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/gavoski/audacity/internal/audio"
	"github.com/gavoski/audacity/internal/nr"
)

func runReduce(args []string) error {
	fs := pflag.NewFlagSet("reduce", pflag.ExitOnError)
	in := fs.StringP("in", "i", "", "WAV file to reduce")
	out := fs.StringP("out", "o", "", "output WAV file")
	profilePath := fs.StringP("profile", "p", "noise.profile.yaml", "noise profile written by the profile command")
	configPath := fs.StringP("config", "c", "", "optional YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return errors.New("reduce: -in and -out are required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	stats, err := loadStatistics(*profilePath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	track, err := audio.ReadWAVTrack(data)
	if err != nil {
		return err
	}
	if track.SampleRate() != stats.SampleRate {
		return fmt.Errorf("reduce: %w", nr.ErrSampleRateMismatch)
	}

	p, err := nr.NewParams(cfg, stats.SampleRate)
	if err != nil {
		return err
	}
	if p.WindowSize != stats.WindowSize {
		return nr.ErrWindowSizeMismatch
	}
	driver, err := nr.NewDriver(p, false)
	if err != nil {
		return err
	}

	completed, err := driver.ProcessReduce(stats, track, track, 0, logProgress)
	if err != nil {
		return err
	}
	if !completed {
		return errors.New("reduce: cancelled")
	}

	if err := os.WriteFile(*out, audio.WriteWAV(track), 0o644); err != nil {
		return err
	}
	log.Printf("reduce: wrote %s", *out)
	return nil
}
