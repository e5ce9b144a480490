package options

import (
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*GrpcOptions)(nil)

// GrpcOptions configure the gRPC health endpoint.
type GrpcOptions struct {
	// Network with server network.
	Network string `json:"network" mapstructure:"network"`

	// Address with server address.
	Addr string `json:"addr" mapstructure:"addr"`

	// ConnectionTimeout bounds the handshake of incoming connections.
	ConnectionTimeout time.Duration `json:"connection-timeout" mapstructure:"connection-timeout"`
}

// NewGrpcOptions returns GrpcOptions with the health endpoint disabled.
func NewGrpcOptions() *GrpcOptions {
	return &GrpcOptions{
		Network:           "tcp",
		Addr:              "",
		ConnectionTimeout: 30 * time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *GrpcOptions) Validate() []error {
	var errors []error

	if o.Addr == "" {
		return errors
	}

	if err := ValidateAddress(o.Addr); err != nil {
		errors = append(errors, err)
	}

	return errors
}

// AddFlags adds flags for the gRPC health server to the specified FlagSet.
func (o *GrpcOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Network, "grpc.network", o.Network, "Specify the network for the gRPC server.")
	fs.StringVar(&o.Addr, "grpc.addr", o.Addr, "Bind address of the gRPC health server (e.g. 0.0.0.0:8091). Empty disables it.")
	fs.DurationVar(&o.ConnectionTimeout, "grpc.connection-timeout", o.ConnectionTimeout, "Timeout for the connection handshake.")
}
