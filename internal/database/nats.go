package database

import (
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
)

// ConnectNATS dials the NATS server used for submission events. An empty URL
// disables the integration and returns a nil connection.
func ConnectNATS(url, clientName string) (*nats.Conn, error) {
	if strings.TrimSpace(url) == "" {
		return nil, nil
	}

	conn, err := nats.Connect(url, nats.Name(clientName))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}

	return conn, nil
}
