package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gurukulschool/portal/internal/cli/client"
)

// NewAnnouncementsCmd creates the announcements command
func NewAnnouncementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "announcements",
		Short: "List current school announcements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnouncements(cmd.Context(), globalOptions(cmd)...)
		},
	}
}

func runAnnouncements(ctx context.Context, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}

	announcements, err := rt.api().ListAnnouncements(ctx)
	if err != nil {
		return failed("failed to load announcements", fallbackGeneric, err)
	}

	printAnnouncements(rt.out, announcements)
	return nil
}

// NewGalleryCmd creates the gallery command
func NewGalleryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gallery",
		Short: "List gallery images",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGallery(cmd.Context(), globalOptions(cmd)...)
		},
	}
}

func runGallery(ctx context.Context, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}

	images, err := rt.api().ListGallery(ctx)
	if err != nil {
		return failed("failed to load gallery", fallbackGeneric, err)
	}

	printGallery(rt.out, images)
	return nil
}

// NewApplyCmd creates the apply command
func NewApplyCmd() *cobra.Command {
	var req client.AdmissionRequest

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Submit an admission application",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), req, globalOptions(cmd)...)
		},
	}

	cmd.Flags().StringVar(&req.StudentName, "student", "", "Student name")
	cmd.Flags().StringVar(&req.ParentName, "parent", "", "Parent or guardian name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&req.Grade, "grade", "", "Grade applying for")
	cmd.Flags().StringVar(&req.DOB, "dob", "", "Student date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Address, "address", "", "Home address")
	cmd.Flags().StringVar(&req.PreviousSchool, "previous-school", "", "Previous school, if any")

	return cmd
}

func runApply(ctx context.Context, req client.AdmissionRequest, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}

	admission, err := rt.api().SubmitAdmission(ctx, req)
	if err != nil {
		return failed("failed to submit application", fallbackGeneric, err)
	}

	fmt.Fprintln(rt.out, "✓ Application submitted!")
	fmt.Fprintf(rt.out, "  Reference: %s\n", admission.ID)
	fmt.Fprintf(rt.out, "  Status:    %s\n", admission.Status)
	return nil
}

// NewContactCmd creates the contact command
func NewContactCmd() *cobra.Command {
	var req client.ContactRequest

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to the school",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContact(cmd.Context(), req, globalOptions(cmd)...)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Your email")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Your phone")
	cmd.Flags().StringVar(&req.Subject, "subject", "", "Subject")
	cmd.Flags().StringVar(&req.Message, "message", "", "Message")

	return cmd
}

func runContact(ctx context.Context, req client.ContactRequest, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}

	if _, err := rt.api().SubmitContact(ctx, req); err != nil {
		return failed("failed to send message", fallbackGeneric, err)
	}

	fmt.Fprintln(rt.out, "✓ Message sent. We will get back to you soon.")
	return nil
}
