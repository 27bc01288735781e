package rpc

import (
	"log/slog"

	middleware "github.com/vmkteam/zenrpc-middleware"
	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/blog-catalog/internal/blog"
)

const namespaceBlog = "blog"

func New(logger *slog.Logger, manager *blog.Manager) *zenrpc.Server {
	rpcServer := zenrpc.NewServer(zenrpc.Options{ExposeSMD: true})
	rpcServer.Register(namespaceBlog, NewBlogService(manager))
	rpcServer.Use(middleware.WithSLog(logger.InfoContext, "blog-catalog", nil))

	return rpcServer
}
