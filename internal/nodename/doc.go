// Package nodename performs the optional distributed-identity setup of the
// shell bootstrap. Supplying both a fully-qualified and a local name is a
// configuration error; an unreachable peer-discovery daemon merely leaves
// the process un-networked.
package nodename
