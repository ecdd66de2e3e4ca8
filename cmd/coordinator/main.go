// Command coordinator runs one replica of the content-extraction
// coordinator: replicated state machine, consensus driver, coordinator
// gRPC API, and the leader-only scheduler loops, fanned out and joined
// through a single lifecycle group.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/indexify/coordinator/internal/config"
	"github.com/indexify/coordinator/internal/coordinatorapi"
	"github.com/indexify/coordinator/internal/coordinatorpb"
	"github.com/indexify/coordinator/internal/lifecycle"
	"github.com/indexify/coordinator/internal/raftnode"
	"github.com/indexify/coordinator/internal/scheduler"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	cmd, err := config.Parse(argv)
	if err != nil {
		return 1
	}
	if err := cmd.Log.Apply(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	peers, err := cmd.ParsedPeers()
	if err != nil {
		log.WithError(err).Error("invalid configuration")
		return 1
	}

	var raftPeers = make([]raftnode.Peer, 0, len(peers))
	for _, p := range peers {
		raftPeers = append(raftPeers, raftnode.Peer{NodeID: p.NodeID, Addr: p.Addr})
	}

	node, err := raftnode.Start(raftnode.Config{
		NodeID:            cmd.NodeID,
		RaftAddr:          cmd.RaftAddr,
		DataDir:           cmd.DataDir,
		Peers:             raftPeers,
		Bootstrap:         cmd.Bootstrap,
		HeartbeatMS:       cmd.HeartbeatMS,
		ElectionTimeoutMS: cmd.ElectionTimeoutMS,
	})
	if err != nil {
		log.WithError(err).Error("failed to start consensus driver")
		return 2
	}

	listener, err := net.Listen("tcp", cmd.CoordinatorAddr)
	if err != nil {
		log.WithError(err).Error("failed to bind coordinator API")
		return 2
	}

	var grpcServer = grpc.NewServer()
	coordinatorpb.RegisterCoordinatorServer(grpcServer, coordinatorapi.New(node))

	var ctx, stop = signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var group = lifecycle.New(ctx)

	group.Run("coordinator-api", func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			grpcServer.GracefulStop()
		}()
		return grpcServer.Serve(listener)
	})

	var executorTTL = time.Duration(cmd.ExecutorTTLSecs) * time.Second
	var supervisor = scheduler.NewSupervisor(node, executorTTL)
	group.Run("scheduler-supervisor", supervisor.Run)

	<-ctx.Done()
	log.Info("shutdown signal received")
	group.Shutdown()
	var errs = group.Wait()

	if err := node.Shutdown(); err != nil {
		log.WithError(err).Warn("error shutting down consensus driver")
		errs = append(errs, err)
	}

	for _, e := range errs {
		log.WithError(e).Warn("background task reported an error during shutdown")
	}
	return 0
}
