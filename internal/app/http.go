package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Dsek-LTH/Janus/internal/config"
	"github.com/Dsek-LTH/Janus/internal/metadata"
	"github.com/Dsek-LTH/Janus/internal/oauth/handler"
	"github.com/Dsek-LTH/Janus/internal/oauth/provider/discord"
	"github.com/Dsek-LTH/Janus/internal/oauth/provider/dsek"
	"github.com/Dsek-LTH/Janus/internal/session"
	"github.com/Dsek-LTH/Janus/internal/store"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	linkStore := store.NewSQLiteStore(infra.DB.DB)

	discordProvider, err := discord.New(
		cfg.DiscordClientID,
		cfg.DiscordClientSecret,
		cfg.DiscordRedirectURI,
	)
	if err != nil {
		return nil, nil, err
	}

	dsekProvider, err := dsek.New(
		ctx,
		cfg.DsekIssuer,
		cfg.DsekClientID,
		cfg.DsekClientSecret,
		cfg.DsekRedirectURI,
	)
	if err != nil {
		return nil, nil, err
	}

	publisher := metadata.NewPublisher(discordProvider, linkStore)

	linkHandler := handler.NewHandler(
		discordProvider,
		dsekProvider,
		sessionStore,
		linkStore,
		publisher,
	)

	router := gin.New()
	router.Use(gin.Recovery())

	linkHandler.RegisterRoutes(router)

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
