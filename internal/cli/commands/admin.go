package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/gurukulschool/portal/internal/cli/client"
	"github.com/gurukulschool/portal/internal/cli/guard"
)

// adminFunc runs an admin action with an authorized API client
type adminFunc func(ctx context.Context, api *client.Client, auth http.Header, out io.Writer) error

// withAdmin resolves the session, requires the admin role and runs fn
func withAdmin(ctx context.Context, opts []Option, fn adminFunc) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}

	api, m, err := rt.authorize(ctx, guard.AdminOnly)
	if err != nil {
		return err
	}

	return fn(ctx, api, m.AuthHeader(), rt.out)
}

// NewAdminCmd creates the admin command tree
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "School administration (admin accounts only)",
	}

	cmd.AddCommand(newAdminStatsCmd())
	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminAdmissionsCmd())
	cmd.AddCommand(newAdminContactsCmd())
	cmd.AddCommand(newAdminGalleryCmd())
	cmd.AddCommand(newAdminAnnouncementsCmd())

	return cmd
}

func newAdminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminStats(cmd.Context(), globalOptions(cmd)...)
		},
	}
}

func runAdminStats(ctx context.Context, opts ...Option) error {
	return withAdmin(ctx, opts, func(ctx context.Context, api *client.Client, auth http.Header, out io.Writer) error {
		stats, err := api.Dashboard(ctx, auth)
		if err != nil {
			return failed("failed to load dashboard", fallbackGeneric, err)
		}
		printStats(out, stats)
		return nil
	})
}

func newAdminUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage registered users",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminListUsers(cmd.Context(), globalOptions(cmd)...)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminDeleteUser(cmd.Context(), args[0], globalOptions(cmd)...)
		},
	})

	return cmd
}

func runAdminListUsers(ctx context.Context, opts ...Option) error {
	return withAdmin(ctx, opts, func(ctx context.Context, api *client.Client, auth http.Header, out io.Writer) error {
		users, err := api.ListUsers(ctx, auth)
		if err != nil {
			return failed("failed to list users", fallbackGeneric, err)
		}
		printUsers(out, users)
		return nil
	})
}

func runAdminDeleteUser(ctx context.Context, id string, opts ...Option) error {
	return withAdmin(ctx, opts, func(ctx context.Context, api *client.Client, auth http.Header, out io.Writer) error {
		if err := api.DeleteUser(ctx, auth, id); err != nil {
			return failed("failed to delete user", fallbackGeneric, err)
		}
		fmt.Fprintf(out, "✓ Deleted user %s\n", id)
		return nil
	})
}

func newAdminAdmissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admissions",
		Short: "Review admission applications",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List admission applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminListAdmissions(cmd.Context(), globalOptions(cmd)...)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <admission-id>",
		Short: "Show an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminShowAdmission(cmd.Context(), args[0], globalOptions(cmd)...)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set-status <admission-id> <pending|approved|rejected>",
		Short: "Set the status of an application",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminSetAdmissionStatus(cmd.Context(), args[0], args[1], globalOptions(cmd)...)
		},
	})

	return cmd
}

func runAdminListAdmissions(ctx context.Context, opts ...Option) error {
	return withAdmin(ctx, opts, func(ctx context.Context, api *client.Client, auth http.Header, out io.Writer) error {
		admissions, err := api.ListAdmissions(ctx, auth)
		if err != nil {
			return failed("failed to list admissions", fallbackGeneric, err)
		}
		printAdmissions(out, admissions)
		return nil
	})
}

func runAdminShowAdmission(ctx context.Context, id string, opts ...Option) error {
	return withAdmin(ctx, opts, func(ctx context.Context, api *client.Client, auth http.Header, out io.Writer) error {
		admission, err := api.GetAdmission(ctx, auth, id)
		if err != nil {
			return failed("failed to load admission", fallbackGeneric, err)
		}
		printAdmission(out, admission)
		return nil
	})
}

func runAdminSetAdmissionStatus(ctx context.Context, id, status string, opts ...Option) error {
	return withAdmin(ctx, opts, func(ctx context.Context, api *client.Client, auth http.Header, out io.Writer) error {
		if err := api.UpdateAdmissionStatus(ctx, auth, id, status); err != nil {
			return failed("failed to update status", fallbackGeneric, err)
		}
		fmt.Fprintf(out, "✓ Admission %s is now %s\n", id, status)
		return nil
	})
}

func newAdminContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Read contact messages",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List contact messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminListContacts(cmd.Context(), globalOptions(cmd)...)
		},
	})

	return cmd
}

func runAdminListContacts(ctx context.Context, opts ...Option) error {
	return withAdmin(ctx, opts, func(ctx context.Context, api *client.Client, auth http.Header, out io.Writer) error {
		contacts, err := api.ListContacts(ctx, auth)
		if err != nil {
			return failed("failed to list contacts", fallbackGeneric, err)
		}
		printContacts(out, contacts)
		return nil
	})
}

func newAdminGalleryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Manage gallery images",
	}

	var req client.GalleryImageRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an image",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminAddImage(cmd.Context(), req, globalOptions(cmd)...)
		},
	}
	add.Flags().StringVar(&req.Title, "title", "", "Image title")
	add.Flags().StringVar(&req.ImageURL, "url", "", "Image URL")
	add.Flags().StringVar(&req.Category, "category", "", "Category (default campus)")

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List gallery images",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGallery(cmd.Context(), globalOptions(cmd)...)
		},
	})
	cmd.AddCommand(add)
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <image-id>",
		Short: "Delete an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminDeleteImage(cmd.Context(), args[0], globalOptions(cmd)...)
		},
	})

	return cmd
}

func runAdminAddImage(ctx context.Context, req client.GalleryImageRequest, opts ...Option) error {
	return withAdmin(ctx, opts, func(ctx context.Context, api *client.Client, auth http.Header, out io.Writer) error {
		image, err := api.AddGalleryImage(ctx, auth, req)
		if err != nil {
			return failed("failed to add image", fallbackGeneric, err)
		}
		fmt.Fprintf(out, "✓ Added image %s (%s)\n", image.Title, image.ID)
		return nil
	})
}

func runAdminDeleteImage(ctx context.Context, id string, opts ...Option) error {
	return withAdmin(ctx, opts, func(ctx context.Context, api *client.Client, auth http.Header, out io.Writer) error {
		if err := api.DeleteGalleryImage(ctx, auth, id); err != nil {
			return failed("failed to delete image", fallbackGeneric, err)
		}
		fmt.Fprintf(out, "✓ Deleted image %s\n", id)
		return nil
	})
}

func newAdminAnnouncementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "announcements",
		Short: "Manage announcements",
	}

	var create client.AnnouncementRequest
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Publish an announcement",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminCreateAnnouncement(cmd.Context(), create, globalOptions(cmd)...)
		},
	}
	createCmd.Flags().StringVar(&create.Title, "title", "", "Title")
	createCmd.Flags().StringVar(&create.Content, "content", "", "Content")
	createCmd.Flags().StringVar(&create.Category, "category", "", "Category (default general)")

	var title, content, category string
	var active bool
	updateCmd := &cobra.Command{
		Use:   "update <announcement-id>",
		Short: "Change an announcement; only the flags given are updated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update client.AnnouncementUpdate
			if cmd.Flags().Changed("title") {
				update.Title = &title
			}
			if cmd.Flags().Changed("content") {
				update.Content = &content
			}
			if cmd.Flags().Changed("category") {
				update.Category = &category
			}
			if cmd.Flags().Changed("active") {
				update.IsActive = &active
			}
			return runAdminUpdateAnnouncement(cmd.Context(), args[0], update, globalOptions(cmd)...)
		},
	}
	updateCmd.Flags().StringVar(&title, "title", "", "New title")
	updateCmd.Flags().StringVar(&content, "content", "", "New content")
	updateCmd.Flags().StringVar(&category, "category", "", "New category")
	updateCmd.Flags().BoolVar(&active, "active", true, "Whether the announcement is shown")

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List active announcements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnouncements(cmd.Context(), globalOptions(cmd)...)
		},
	})
	cmd.AddCommand(createCmd)
	cmd.AddCommand(updateCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <announcement-id>",
		Short: "Delete an announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminDeleteAnnouncement(cmd.Context(), args[0], globalOptions(cmd)...)
		},
	})

	return cmd
}

func runAdminCreateAnnouncement(ctx context.Context, req client.AnnouncementRequest, opts ...Option) error {
	return withAdmin(ctx, opts, func(ctx context.Context, api *client.Client, auth http.Header, out io.Writer) error {
		announcement, err := api.CreateAnnouncement(ctx, auth, req)
		if err != nil {
			return failed("failed to create announcement", fallbackGeneric, err)
		}
		fmt.Fprintf(out, "✓ Published %q (%s)\n", announcement.Title, announcement.ID)
		return nil
	})
}

func runAdminUpdateAnnouncement(ctx context.Context, id string, update client.AnnouncementUpdate, opts ...Option) error {
	if update == (client.AnnouncementUpdate{}) {
		return fmt.Errorf("nothing to update (use --title, --content, --category or --active)")
	}

	return withAdmin(ctx, opts, func(ctx context.Context, api *client.Client, auth http.Header, out io.Writer) error {
		announcement, err := api.UpdateAnnouncement(ctx, auth, id, update)
		if err != nil {
			return failed("failed to update announcement", fallbackGeneric, err)
		}
		state := "active"
		if !announcement.IsActive {
			state = "inactive"
		}
		fmt.Fprintf(out, "✓ Updated %q (%s)\n", announcement.Title, state)
		return nil
	})
}

func runAdminDeleteAnnouncement(ctx context.Context, id string, opts ...Option) error {
	return withAdmin(ctx, opts, func(ctx context.Context, api *client.Client, auth http.Header, out io.Writer) error {
		if err := api.DeleteAnnouncement(ctx, auth, id); err != nil {
			return failed("failed to delete announcement", fallbackGeneric, err)
		}
		fmt.Fprintf(out, "✓ Deleted announcement %s\n", id)
		return nil
	})
}
