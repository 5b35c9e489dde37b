//go:build integration

package spystore

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestLibsqlStore(t *testing.T) {
	testcontainers.Logger = log.New(io.Discard, "", 0)
	ctx := context.Background()

	server, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "ghcr.io/tursodatabase/libsql-server:latest",
			ExposedPorts: []string{"8080/tcp"},
			WaitingFor:   wait.ForListeningPort("8080/tcp"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer server.Terminate(ctx)

	host, err := server.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := server.MappedPort(ctx, "8080/tcp")
	if err != nil {
		t.Fatal(err)
	}

	store, err := OpenSQL(fmt.Sprintf("http://%s:%s", host, port.Port()))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	exerciseStore(t, store)
}
