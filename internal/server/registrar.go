package server

import (
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc"
)

// Registrar is a common interface for all gRPC service registrars
type Registrar interface {
	Register(s *grpc.Server)
}

// RouteRegistrar is implemented by every HTTP service; routes are attached
// under the /api prefix.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}
