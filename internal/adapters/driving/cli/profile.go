package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit your profile",
	RunE:  runProfileShow,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Long: `Update one or more profile fields. Only the flags you pass are changed.

Example:
  docchat profile update --name "Ada" --location London`,
	Args: cobra.NoArgs,
	RunE: runProfileUpdate,
}

var profileImageCmd = &cobra.Command{
	Use:   "upload-image [file]",
	Short: "Upload a profile picture",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileImage,
}

func init() {
	profileUpdateCmd.Flags().String("name", "", "Display name")
	profileUpdateCmd.Flags().String("phone", "", "Phone number")
	profileUpdateCmd.Flags().String("location", "", "Location")
	profileUpdateCmd.Flags().String("bio", "", "Short bio")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileImageCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, _ []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	profile, err := profileService.Get(cmd.Context())
	if err != nil {
		return err
	}

	printProfile(cmd, profile)
	return nil
}

func runProfileUpdate(cmd *cobra.Command, _ []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	var update domain.ProfileUpdate
	for flag, field := range map[string]**string{
		"name":     &update.Name,
		"phone":    &update.Phone,
		"location": &update.Location,
		"bio":      &update.Bio,
	} {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		value, _ := cmd.Flags().GetString(flag)
		*field = &value
	}

	profile, err := profileService.Update(cmd.Context(), update)
	if err != nil {
		printFieldErrors(cmd, err)
		return err
	}

	cmd.Println("Profile updated")
	printProfile(cmd, profile)
	return nil
}

func runProfileImage(cmd *cobra.Command, args []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	file, closeFile, err := openFile(args[0])
	if err != nil {
		return err
	}
	defer closeFile()

	url, err := profileService.UploadImage(cmd.Context(), *file)
	if err != nil {
		return err
	}

	cmd.Printf("Profile image uploaded: %s\n", url)
	return nil
}

func printProfile(cmd *cobra.Command, profile *domain.Profile) {
	cmd.Printf("Email:    %s\n", orDash(profile.Email))
	cmd.Printf("Name:     %s\n", orDash(profile.Name))
	cmd.Printf("Phone:    %s\n", orDash(profile.Phone))
	cmd.Printf("Location: %s\n", orDash(profile.Location))
	cmd.Printf("Bio:      %s\n", orDash(profile.Bio))
	cmd.Printf("Image:    %s\n", orDash(profile.ImageURL))
}
