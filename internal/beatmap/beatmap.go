// Package beatmap decodes level files into the domain Level model.
//
// The container is the osu! text format: an "osu file format vN" header
// followed by bracketed sections of key:value pairs and comma-separated
// records. Only the fields the analysis pipeline needs are decoded; all
// unknown sections and malformed records are skipped.
package beatmap

import (
	"bufio"
	"bytes"
	"crypto/md5" //nolint:gosec // fingerprint matches the format's own MD5 references, not a security boundary
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/senstune/internal/domain/model"
)

// Target type bitmask as encoded in the HitObjects section.
const (
	typeCircle  = 1 << 0
	typeSlider  = 1 << 1
	typeSpinner = 1 << 3
	typeHold    = 1 << 7
)

// hitObjectMinFields is the smallest record that still carries
// x, y, time, and type.
const hitObjectMinFields = 4

type section int

const (
	secNone section = iota
	secGeneral
	secHitObjects
	secOther
)

// Fingerprint returns the hex MD5 digest of the raw level file bytes.
// Replays reference levels by this digest.
func Fingerprint(data []byte) string {
	sum := md5.Sum(data) //nolint:gosec // content addressing, see package note
	return hex.EncodeToString(sum[:])
}

// ParseFile reads and decodes the level file at path.
func ParseFile(path string) (*model.Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a level from its raw bytes. The returned Level carries
// the fingerprint of exactly those bytes and its targets sorted by time.
func Parse(data []byte) (*model.Level, error) {
	lvl := &model.Level{
		Fingerprint: Fingerprint(data),
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	sawHeader := false
	sec := secNone
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if !sawHeader {
			if !strings.Contains(line, "osu file format") {
				return nil, fmt.Errorf("%w: %q", ErrMissingHeader, line)
			}
			sawHeader = true
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			switch line {
			case "[General]":
				sec = secGeneral
			case "[HitObjects]":
				sec = secHitObjects
			default:
				sec = secOther
			}
			continue
		}

		switch sec {
		case secGeneral:
			key, val := splitKeyVal(line)
			if key == "Mode" {
				if mode, err := strconv.Atoi(val); err == nil {
					lvl.Mode = model.GameMode(mode)
				}
			}
		case secHitObjects:
			if ev, ok := parseHitObject(line); ok {
				lvl.Targets = append(lvl.Targets, ev)
			}
		case secNone, secOther:
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan level file: %w", err)
	}
	if !sawHeader {
		return nil, ErrMissingHeader
	}

	sort.SliceStable(lvl.Targets, func(i, j int) bool {
		return lvl.Targets[i].Time < lvl.Targets[j].Time
	})
	return lvl, nil
}

// parseHitObject decodes one "x,y,time,type,..." record into a target
// event. Malformed records return ok=false and are dropped silently.
func parseHitObject(line string) (model.TargetEvent, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < hitObjectMinFields {
		return model.TargetEvent{}, false
	}

	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	t, errT := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	flags, errF := strconv.Atoi(strings.TrimSpace(parts[3]))
	if errX != nil || errY != nil || errT != nil || errF != nil {
		return model.TargetEvent{}, false
	}

	ev := model.TargetEvent{
		Position: model.Vec2{X: x, Y: y},
		Time:     t,
	}
	switch {
	case flags&typeSpinner != 0:
		ev.Kind = model.SpinTarget
	case flags&typeSlider != 0, flags&typeHold != 0:
		ev.Kind = model.DurationTarget
	case flags&typeCircle != 0:
		ev.Kind = model.PointTarget
	default:
		return model.TargetEvent{}, false
	}
	return ev, true
}

func splitKeyVal(line string) (key, val string) {
	i := strings.Index(line, ":")
	if i < 0 {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
}
