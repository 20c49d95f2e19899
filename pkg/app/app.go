// Package app holds the contract between the cmd/* binaries and the process
// runners in pkg/app/api and pkg/app/watcher.
package app

// Runner owns a process from wiring to graceful shutdown. Run blocks until
// the process should exit.
type Runner interface {
	Run() error
}
