package main

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/gavoski/audacity/internal/audio"
	"github.com/gavoski/audacity/internal/nr"
)

func runProfile(args []string) error {
	fs := pflag.NewFlagSet("profile", pflag.ExitOnError)
	in := fs.StringP("in", "i", "", "WAV file containing only noise")
	profileOut := fs.StringP("profile", "p", "noise.profile.yaml", "path to write the noise profile")
	configPath := fs.StringP("config", "c", "", "optional YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("profile: -in is required")
	}

	cfg, err := loadConfig(*configPath)
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

	p, err := nr.NewParams(cfg, track.SampleRate())
	if err != nil {
		return err
	}
	driver, err := nr.NewDriver(p, true)
	if err != nil {
		return err
	}

	stats := nr.NewStatistics(track.SampleRate(), p.WindowSize, p.WindowType)
	completed, err := driver.ProcessProfile(stats, track, 0, logProgress)
	if err != nil {
		return err
	}
	if !completed {
		return errors.New("profile: cancelled")
	}
	stats.EndTrack()
	if err := stats.Finish(); err != nil {
		return err
	}

	if err := saveStatistics(*profileOut, stats); err != nil {
		return err
	}
	log.Printf("profile: wrote %s (%d windows)", *profileOut, stats.TotalWindows)
	return nil
}

func logProgress(trackIndex int, fraction float64) bool {
	log.Printf("track %d: %.0f%%", trackIndex, fraction*100)
	return false
}
