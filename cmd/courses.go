package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/mvaldr/kattscope/pkg/kattis"
)

// coursesCmd represents the courses command
var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the courses visible on your homepage",
	RunE: func(cmd *cobra.Command, _ []string) error {
		spec, err := kattis.NewSpec(kattis.ViewCourses, kattis.Options{})
		if err != nil {
			return err
		}
		client, _, err := connect(cmd)
		if err != nil {
			return err
		}
		result, err := client.Courses(context.Background(), spec)
		if err != nil {
			return err
		}
		fmt.Println(result.ToTable().Render())
		return nil
	},
}

// offeringsCmd represents the offerings command
var offeringsCmd = &cobra.Command{
	Use:   "offerings",
	Short: "List the offerings (semester instances) of one course",
	RunE: func(cmd *cobra.Command, _ []string) error {
		course, _ := cmd.Flags().GetString("course")
		if course == "" {
			return fmt.Errorf("pass the course id or name with --course")
		}

		client, _, err := connect(cmd)
		if err != nil {
			return err
		}
		ctx := context.Background()

		courseID, err := client.ResolveCourseID(ctx, course)
		if err != nil {
			return err
		}
		spec, err := kattis.NewSpec(kattis.ViewOfferings, kattis.Options{CourseID: courseID})
		if err != nil {
			return err
		}
		result, err := client.Offerings(ctx, spec)
		if err != nil {
			return err
		}
		fmt.Println(result.ToTable().Render())
		return nil
	},
}

// assignmentsCmd represents the assignments command
var assignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "List one course offering's assignments and their problems",
	RunE: func(cmd *cobra.Command, _ []string) error {
		course, _ := cmd.Flags().GetString("course")
		offering, _ := cmd.Flags().GetString("offering")
		if offering == "" {
			return fmt.Errorf("pass the offering id with --offering")
		}

		client, _, err := connect(cmd)
		if err != nil {
			return err
		}
		ctx := context.Background()

		courseID := course
		if course != "" {
			if courseID, err = client.ResolveCourseID(ctx, course); err != nil {
				return err
			}
		}
		spec, err := kattis.NewSpec(kattis.ViewAssignments, kattis.Options{
			CourseID:   courseID,
			OfferingID: offering,
		})
		if err != nil {
			return err
		}
		result, err := client.Assignments(ctx, spec)
		if err != nil {
			return err
		}
		fmt.Println(result.ToTable().Render())
		if n := result.Dropped(); n > 0 {
			fmt.Printf("dropped %d malformed rows\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(offeringsCmd)
	rootCmd.AddCommand(assignmentsCmd)

	offeringsCmd.Flags().StringP("course", "c", "", "Course id or name fragment")
	assignmentsCmd.Flags().StringP("course", "c", "", "Course id or name fragment")
	assignmentsCmd.Flags().StringP("offering", "o", "", "Offering id (see the offerings command)")
}
