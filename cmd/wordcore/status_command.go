package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wordcore/internal/ipc"
)

type daemonStatusView struct {
	Running    bool                `json:"running"`
	SocketPath string              `json:"socket_path"`
	Daemon     *ipc.StatusResponse `json:"daemon,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the daemon is serving and its database state",
		RunE: func(cmd *cobra.Command, args []string) error {
			socket := ctx.socketPath()
			view := daemonStatusView{SocketPath: socket}

			client, err := ipc.Dial(socket)
			switch {
			case err == nil:
				defer client.Close()
				status, err := client.Status()
				if err != nil {
					return err
				}
				view.Running = true
				view.Daemon = status
			case !isDaemonOffline(err):
				return wrapDialError(err, socket)
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, strings.Join(renderSectionHeader("wordcore", colorize), "\n"))
			if !view.Running {
				fmt.Fprintln(out, renderStatusLine("Daemon", statusWarn, "not running (commands run in-process)", colorize))
				fmt.Fprintln(out, renderStatusLine("Socket", statusInfo, socket, colorize))
				return nil
			}
			d := view.Daemon
			fmt.Fprintln(out, renderStatusLine("Daemon", statusOK, "running (pid "+strconv.Itoa(d.PID)+")", colorize))
			fmt.Fprintln(out, renderStatusLine("Started", statusInfo, d.StartedAt, colorize))
			fmt.Fprintln(out, renderStatusLine("Socket", statusInfo, socket, colorize))
			fmt.Fprintln(out, renderStatusLine("Database", statusInfo, d.DatabasePath, colorize))
			fmt.Fprintln(out, renderStatusLine("Schema", statusInfo, "version "+strconv.Itoa(d.SchemaVersion), colorize))
			integrity, kind := "ok", statusOK
			if !d.Integrity {
				integrity, kind = "integrity_check reported problems", statusError
			}
			fmt.Fprintln(out, renderStatusLine("Integrity", kind, integrity, colorize))
			return nil
		},
	}
}
