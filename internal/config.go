package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Host      string `env:"HOST,required=true"`
	Port      int    `env:"PORT,required=true"`
	DebugPort int    `env:"DEBUG_PORT,required=true"`
	LogLevel  string `env:"LOG_LEVEL,required=true"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`

	AuthSecret        string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`

	LaneCount        int           `env:"LANE_COUNT,required=true"`
	BufferSize       int           `env:"BUFFER_SIZE,required=true"`
	SinkTimeout      time.Duration `env:"SINK_TIMEOUT,required=true"`
	SuppressEcho     bool          `env:"SUPPRESS_ECHO,required=true"`
	ParallelSessions bool          `env:"PARALLEL_SESSIONS"`

	ConflictWindow time.Duration `env:"CONFLICT_WINDOW,required=true"`
	ConflictDepth  int           `env:"CONFLICT_DEPTH,required=true"`

	IdleGrace    time.Duration `env:"IDLE_GRACE,required=true"`
	ReapInterval time.Duration `env:"REAP_INTERVAL,required=true"`

	CensoredWords   string `env:"CENSORED_WORDS"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,required=true"`

	MetricInterval       time.Duration `env:"METRIC_INTERVAL,required=true"`
	LatencyThreshold     time.Duration `env:"LATENCY_THRESHOLD,required=true"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,required=true"`

	SearchPageSize      int           `env:"SEARCH_PAGE_SIZE,required=true"`
	SearchBatchSize     int           `env:"SEARCH_BATCH_SIZE,required=true"`
	SearchFlushInterval time.Duration `env:"SEARCH_FLUSH_INTERVAL,required=true"`

	TimelineLimit int `env:"TIMELINE_LIMIT,required=true"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

// WordList splits a comma separated env value into trimmed entries.
// An unset value yields nil so moderation stays disabled by default.
func WordList(str string) []string {
	if strings.TrimSpace(str) == "" {
		return nil
	}
	var words []string
	for _, part := range strings.Split(str, ",") {
		if word := strings.TrimSpace(part); word != "" {
			words = append(words, word)
		}
	}
	return words
}
