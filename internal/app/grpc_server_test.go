package app

import (
	"context"
	"net"
	"slices"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	grpcsvc "github.com/vladislavdragonenkov/fulfillment/internal/service/grpc"
	fulfillmentv1 "github.com/vladislavdragonenkov/fulfillment/proto/fulfillment/v1"
)

func dialTestGRPCServer(t *testing.T) *grpc.ClientConn {
	t.Helper()

	logger := log.WithField("test", "grpc")
	server, _ := newGRPCServer(grpcsvc.NewFulfillmentService(nil, nil, logger), logger)

	listener := bufconn.Listen(1024 * 1024)
	go func() {
		_ = server.Serve(listener)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return listener.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})
	return conn
}

func TestNewGRPCServer_ReflectionListsFulfillmentService(t *testing.T) {
	conn := dialTestGRPCServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := reflectionpb.NewServerReflectionClient(conn).ServerReflectionInfo(ctx)
	if err != nil {
		t.Fatalf("open reflection stream: %v", err)
	}

	if err := stream.Send(&reflectionpb.ServerReflectionRequest{
		MessageRequest: &reflectionpb.ServerReflectionRequest_ListServices{},
	}); err != nil {
		t.Fatalf("send list services: %v", err)
	}
	resp, err := stream.Recv()
	if err != nil {
		t.Fatalf("recv list services: %v", err)
	}
	var services []string
	for _, svc := range resp.GetListServicesResponse().GetService() {
		services = append(services, svc.GetName())
	}
	for _, want := range []string{"fulfillment.v1.FulfillmentService", "grpc.health.v1.Health"} {
		if !slices.Contains(services, want) {
			t.Fatalf("service %s is not listed: %v", want, services)
		}
	}

	if err := stream.Send(&reflectionpb.ServerReflectionRequest{
		MessageRequest: &reflectionpb.ServerReflectionRequest_FileContainingSymbol{
			FileContainingSymbol: "fulfillment.v1.FulfillmentService",
		},
	}); err != nil {
		t.Fatalf("send file request: %v", err)
	}
	resp, err = stream.Recv()
	if err != nil {
		t.Fatalf("recv file descriptor: %v", err)
	}
	files := resp.GetFileDescriptorResponse().GetFileDescriptorProto()
	if len(files) == 0 {
		t.Fatalf("expected file descriptor, got %v", resp)
	}

	var fd descriptorpb.FileDescriptorProto
	if err := proto.Unmarshal(files[0], &fd); err != nil {
		t.Fatalf("decode file descriptor: %v", err)
	}
	if fd.GetName() != fulfillmentv1.File_proto_fulfillment_v1_fulfillment_proto.Path() {
		t.Fatalf("unexpected descriptor file %q", fd.GetName())
	}
	if len(fd.GetService()) != 1 || len(fd.GetService()[0].GetMethod()) != 3 {
		t.Fatalf("unexpected service descriptor: %v", fd.GetService())
	}
}

func TestNewGRPCServer_HealthServing(t *testing.T) {
	conn := dialTestGRPCServer(t)
	client := healthpb.NewHealthClient(conn)

	for _, service := range []string{"", fulfillmentv1.FulfillmentService_ServiceDesc.ServiceName} {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
		if err != nil {
			t.Fatalf("health check %q: %v", service, err)
		}
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			t.Fatalf("expected SERVING for %q, got %v", service, resp.GetStatus())
		}
	}
}
