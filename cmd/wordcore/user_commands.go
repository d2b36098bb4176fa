package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"wordcore/internal/api"
	"wordcore/internal/store"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage parent and child accounts",
	}
	userCmd.AddCommand(newUserAddCommand(ctx))
	userCmd.AddCommand(newUserListCommand(ctx))
	userCmd.AddCommand(newUserDeleteCommand(ctx))
	return userCmd
}

func newUserAddCommand(ctx *commandContext) *cobra.Command {
	var role string
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				user, err := svc.CreateUser(cmd.Context(), role, name)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, user, func() string {
					return fmt.Sprintf("Created %s account %d (%s)", user.Role, user.ID, user.DisplayName)
				})
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", string(store.RoleChild), "Account role (PARENT or CHILD)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newUserListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				users, err := svc.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				return ctx.emit(cmd, users, func() string {
					if len(users) == 0 {
						return "No accounts. Create one with `wordcore user add --name NAME`."
					}
					rows := make([][]string, 0, len(users))
					for _, u := range users {
						rows = append(rows, []string{
							strconv.FormatInt(u.ID, 10),
							string(u.Role),
							u.DisplayName,
							formatTime(&u.CreatedAt),
						})
					}
					return renderTable([]column{{"ID", alignRight}, {"Role", alignLeft}, {"Name", alignLeft}, {"Created", alignLeft}}, rows, "")
				})
			})
		},
	}
}

func newUserDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete USER_ID",
		Short: "Delete an account and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0], "user id")
			if err != nil {
				return err
			}
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			return ctx.withService(func(svc *api.Service) error {
				if err := svc.DeleteUser(cmd.Context(), userID); err != nil {
					return err
				}
				return ctx.emit(cmd, map[string]int64{"deleted_user_id": userID}, func() string {
					return fmt.Sprintf("Deleted account %d", userID)
				})
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
