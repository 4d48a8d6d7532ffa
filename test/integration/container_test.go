//go:build integration

package integration

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	postgresImage = "postgres:16-alpine"
	// externalURLEnv points the suite at an already running server, such as
	// a CI service container, instead of starting one.
	externalURLEnv = "DOS_MIGRATION_IT_DATABASE_URL"
)

// startPostgres returns a connection string for a throwaway Postgres and a
// cleanup function. Docker picks the host port.
func startPostgres(ctx context.Context) (string, func(), error) {
	if url := os.Getenv(externalURLEnv); url != "" {
		return url, func() {}, waitForPostgres(ctx, url, 30*time.Second)
	}

	out, err := exec.CommandContext(ctx, "docker", "run", "-d", "--rm",
		"-p", "127.0.0.1::5432",
		"-e", "POSTGRES_USER=dos",
		"-e", "POSTGRES_PASSWORD=dos",
		"-e", "POSTGRES_DB=dos",
		postgresImage,
	).CombinedOutput()
	if err != nil {
		return "", nil, fmt.Errorf("docker run: %w\noutput: %s", err, out)
	}
	id := strings.TrimSpace(string(out))
	cleanup := func() { _ = exec.Command("docker", "stop", id).Run() }

	hostPort, err := publishedPort(ctx, id)
	if err != nil {
		cleanup()
		return "", nil, err
	}

	url := fmt.Sprintf("postgres://dos:dos@%s/dos?sslmode=disable", hostPort)
	if err := waitForPostgres(ctx, url, 30*time.Second); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("wait for postgres: %w", err)
	}
	return url, cleanup, nil
}

// publishedPort asks docker which host address it bound to 5432.
func publishedPort(ctx context.Context, id string) (string, error) {
	out, err := exec.CommandContext(ctx, "docker", "port", id, "5432/tcp").Output()
	if err != nil {
		return "", fmt.Errorf("docker port: %w", err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	host, port, err := net.SplitHostPort(line)
	if err != nil {
		return "", fmt.Errorf("parse published port %q: %w", line, err)
	}
	return net.JoinHostPort(host, port), nil
}

func waitForPostgres(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		conn, err := pgx.Connect(ctx, url)
		if err == nil {
			err = conn.Ping(ctx)
			conn.Close(context.Background())
			if err == nil {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("postgres not ready after %v: %w", timeout, err)
		case <-ticker.C:
		}
	}
}
