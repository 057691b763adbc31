package handlers

import (
	"github.com/steiner385/capacinator/internal/config"
	"github.com/steiner385/capacinator/internal/confirm"
	"github.com/steiner385/capacinator/internal/recommend"
	"github.com/steiner385/capacinator/internal/reportcache"
)

var (
	reportCache   *reportcache.Cache
	confirmations *confirm.Registry
	scorer        *recommend.Scorer
)

// Setup wires the handler package's shared state. Must run before the
// router starts serving.
func Setup(cfg *config.Config) {
	reportCache = reportcache.New(cfg.ReportCacheTTL)
	confirmations = confirm.NewRegistry(cfg.ConfirmTTL)
	scorer = recommend.NewScorer()
}

// SetScorer swaps the match scorer; tests use it to pin the jitter seed.
func SetScorer(s *recommend.Scorer) {
	scorer = s
}
