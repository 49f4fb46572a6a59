package rpc

import (
	"log/slog"

	middleware "github.com/vmkteam/zenrpc-middleware"
	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/news-herald/internal/newsportal"
)

const articlesNamespace = "articles"

func New(logger *slog.Logger, manager *newsportal.Manager) zenrpc.Server {
	rpcServer := zenrpc.NewServer(zenrpc.Options{ExposeSMD: true})
	rpcServer.Register(articlesNamespace, NewArticleService(manager))
	rpcServer.Use(middleware.WithSLog(logger.InfoContext, "news-herald", nil))

	return rpcServer
}
