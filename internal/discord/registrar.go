// Package discord pushes slash command definitions to Discord's API.
package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/franswap/bot-discord-immobilier/pkg/retrylimit"
)

// Overwriter is the part of *discordgo.Session the registrar uses.
type Overwriter interface {
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// NewSession opens a REST-only client authenticated with the bot token.
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return dg, nil
}

// Registrar replaces the application's commands in one scope: a guild, or global when guildID is empty.
type Registrar struct {
	api      Overwriter
	appID    string
	guildID  string
	cacheDir string
	limiter  *retrylimit.AdaptiveLimiter
	retry    retrylimit.Config
	now      func() time.Time
}

// NewRegistrar creates a registrar. An empty cacheDir disables the hash cache.
func NewRegistrar(api Overwriter, appID, guildID, cacheDir string) *Registrar {
	cfg := retrylimit.DefaultConfig()
	cfg.Name = "bulk overwrite commands"
	cfg.Classify = retrylimit.StatusClassifier(restStatus)

	return &Registrar{
		api:      api,
		appID:    appID,
		guildID:  guildID,
		cacheDir: cacheDir,
		limiter:  retrylimit.NewAdaptiveLimiter(1, 1, 5, 1, 0.5),
		retry:    cfg,
		now:      time.Now,
	}
}

// Scope is "global" or the guild id.
func (r *Registrar) Scope() string {
	if r.guildID == "" {
		return "global"
	}
	return r.guildID
}

// Result describes one Sync call.
type Result struct {
	Scope      string
	Hash       string
	Skipped    bool
	Registered []*discordgo.ApplicationCommand
}

// Sync sends defs unless the cached hash for this scope already matches.
// force always sends.
func (r *Registrar) Sync(ctx context.Context, defs []*discordgo.ApplicationCommand, force bool) (Result, error) {
	hashes := make(map[string]string, len(defs))
	for _, d := range defs {
		if _, dup := hashes[d.Name]; dup {
			return Result{}, fmt.Errorf("duplicate command definition %q", d.Name)
		}
		hashes[d.Name] = hashCommand(d)
	}
	res := Result{Scope: r.Scope(), Hash: hashSet(hashes)}

	var path string
	if r.cacheDir != "" {
		path = cachePath(r.cacheDir, res.Scope)
		cached, err := loadCache(path)
		if err != nil {
			log.Warn().Err(err).Msg("Ignoring unreadable command cache")
		}
		if !force && cached.Hash == res.Hash {
			log.Info().Str("scope", res.Scope).Msg("Commands unchanged, skipping registration")
			res.Skipped = true
			return res, nil
		}
	}

	err := retrylimit.Do(ctx, r.retry, r.limiter, func(ctx context.Context) error {
		registered, err := r.api.ApplicationCommandBulkOverwrite(r.appID, r.guildID, defs, discordgo.WithContext(ctx))
		if err != nil {
			return err
		}
		res.Registered = registered
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("register commands (%s): %w", res.Scope, err)
	}
	log.Info().Str("scope", res.Scope).Int("commands", len(res.Registered)).Msg("Registered commands")

	if path != "" {
		if err := saveCache(path, commandCache{Hash: res.Hash, Commands: hashes, UpdatedAt: r.now().UTC()}); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to save command cache")
		}
	}
	return res, nil
}

// restStatus extracts the HTTP status of a discordgo REST failure, or 0.
func restStatus(err error) int {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode
	}
	return 0
}
