// Package cmd contains the Cobra CLI commands for dqp.
package cmd
