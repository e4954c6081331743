package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/gurukulschool/portal/internal/cli/client"
)

const dateFormat = "2006-01-02 15:04"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateFormat)
}

func printAnnouncements(w io.Writer, announcements []client.Announcement) {
	if len(announcements) == 0 {
		fmt.Fprintln(w, "No announcements.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPOSTED")
	fmt.Fprintln(tw, "──\t─────\t────────\t──────")
	for _, a := range announcements {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Title, a.Category, formatTime(a.CreatedAt))
	}
	tw.Flush()
}

func printGallery(w io.Writer, images []client.GalleryImage) {
	if len(images) == 0 {
		fmt.Fprintln(w, "No images.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tURL")
	fmt.Fprintln(tw, "──\t─────\t────────\t───")
	for _, img := range images {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", img.ID, img.Title, img.Category, img.ImageURL)
	}
	tw.Flush()
}

func printUsers(w io.Writer, users []client.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tJOINED")
	fmt.Fprintln(tw, "──\t────\t─────\t─────\t──────")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Phone, formatTime(u.CreatedAt))
	}
	tw.Flush()
}

func printAdmissions(w io.Writer, admissions []client.Admission) {
	if len(admissions) == 0 {
		fmt.Fprintln(w, "No admission applications.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTUDENT\tGRADE\tPARENT\tSTATUS\tSUBMITTED")
	fmt.Fprintln(tw, "──\t───────\t─────\t──────\t──────\t─────────")
	for _, a := range admissions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.StudentName, a.Grade, a.ParentName, a.Status, formatTime(a.SubmittedAt))
	}
	tw.Flush()
}

func printAdmission(w io.Writer, a *client.Admission) {
	fmt.Fprintf(w, "  ID:              %s\n", a.ID)
	fmt.Fprintf(w, "  Student:         %s\n", a.StudentName)
	fmt.Fprintf(w, "  Date of birth:   %s\n", a.DOB)
	fmt.Fprintf(w, "  Grade:           %s\n", a.Grade)
	fmt.Fprintf(w, "  Parent:          %s\n", a.ParentName)
	fmt.Fprintf(w, "  Email:           %s\n", a.Email)
	fmt.Fprintf(w, "  Phone:           %s\n", a.Phone)
	fmt.Fprintf(w, "  Address:         %s\n", a.Address)
	if a.PreviousSchool != "" {
		fmt.Fprintf(w, "  Previous school: %s\n", a.PreviousSchool)
	}
	fmt.Fprintf(w, "  Status:          %s\n", a.Status)
	fmt.Fprintf(w, "  Submitted:       %s\n", formatTime(a.SubmittedAt))
}

func printContacts(w io.Writer, contacts []client.Contact) {
	if len(contacts) == 0 {
		fmt.Fprintln(w, "No contact messages.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEMAIL\tPHONE\tSUBJECT\tRECEIVED")
	fmt.Fprintln(tw, "────\t─────\t─────\t───────\t────────")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.Name, c.Email, c.Phone, c.Subject, formatTime(c.CreatedAt))
	}
	tw.Flush()
}

func printStats(w io.Writer, stats *client.DashboardStats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Registered users\t%d\n", stats.TotalUsers)
	fmt.Fprintf(tw, "Admission applications\t%d\n", stats.TotalAdmissions)
	fmt.Fprintf(tw, "Pending applications\t%d\n", stats.PendingAdmissions)
	fmt.Fprintf(tw, "Contact messages\t%d\n", stats.TotalContacts)
	fmt.Fprintf(tw, "Gallery images\t%d\n", stats.TotalGallery)
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Students\t%d\n", stats.Stats.Students)
	fmt.Fprintf(tw, "Faculty\t%d\n", stats.Stats.Faculty)
	fmt.Fprintf(tw, "Years of excellence\t%d\n", stats.Stats.Years)
	fmt.Fprintf(tw, "Student/teacher ratio\t%s\n", stats.Stats.Ratio)
	fmt.Fprintf(tw, "Parent satisfaction\t%s\n", stats.Stats.Satisfaction)
	tw.Flush()
}
