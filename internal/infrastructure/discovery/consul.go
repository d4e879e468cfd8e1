package discovery

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/hashicorp/consul/api"
)

// Registration describes how this instance announces itself.
type Registration struct {
	Name          string // service name, e.g. "examprep"
	Address       string // address other services reach us on
	ListenAddress string // the server's listen address, e.g. ":8080"
	Tags          []string
}

func (r Registration) id() string {
	return fmt.Sprintf("%s-%s-http", r.Name, r.Address)
}

// ServiceRegistry registers the HTTP API with a Consul agent, health-checked
// through GET /health.
type ServiceRegistry struct {
	client *api.Client
	reg    Registration
	logger *slog.Logger
}

func NewServiceRegistry(consulAddr string, reg Registration, logger *slog.Logger) (*ServiceRegistry, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = consulAddr

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}
	return &ServiceRegistry{client: client, reg: reg, logger: logger}, nil
}

func (sr *ServiceRegistry) Register() error {
	_, portStr, err := net.SplitHostPort(sr.reg.ListenAddress)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", sr.reg.ListenAddress, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid HTTP port %q: %w", portStr, err)
	}

	registration := &api.AgentServiceRegistration{
		ID:      sr.reg.id(),
		Name:    sr.reg.Name,
		Port:    port,
		Address: sr.reg.Address,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s/health", net.JoinHostPort(sr.reg.Address, portStr)),
			Interval: "10s",
			Timeout:  "5s",
		},
		Tags: sr.reg.Tags,
		Meta: map[string]string{
			"protocol": "http",
			"version":  "1.0",
		},
	}
	if err := sr.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("register with consul: %w", err)
	}

	sr.logger.Info("registered with consul", "service_id", registration.ID, "port", port)
	return nil
}

func (sr *ServiceRegistry) Deregister() error {
	if err := sr.client.Agent().ServiceDeregister(sr.reg.id()); err != nil {
		return fmt.Errorf("deregister from consul: %w", err)
	}
	sr.logger.Info("deregistered from consul", "service_id", sr.reg.id())
	return nil
}
