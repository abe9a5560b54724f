package database

import (
	"fmt"
	"net"

	"todo_realtime_service/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// StartHealthServer serve the standard grpc health service on port
func StartHealthServer(port string) (*grpc.Server, *health.Server, error) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, nil, fmt.Errorf("grpc listen: %w", err)
	}

	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	go func() {
		if err := srv.Serve(listener); err != nil {
			logger.Log.Error("grpc health server stopped", zap.Error(err))
		}
	}()
	return srv, hs, nil
}
