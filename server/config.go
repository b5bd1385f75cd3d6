package server

import "time"

type Config struct {
	Addr            string        `split_words:"true" default:":8080"`
	ReadTimeout     time.Duration `split_words:"true" default:"15s"`
	WriteTimeout    time.Duration `split_words:"true" default:"150s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
	// DefaultSessionID is used when a request names no session.
	DefaultSessionID string `split_words:"true" default:"default"`
}
