package cli

import (
	"github.com/amanthanvi/userdb/internal/user"
	"github.com/spf13/cobra"
)

type recordFlags struct {
	name      string
	email     string
	bio       string
	avatarURL string
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "User name")
	cmd.Flags().StringVar(&f.email, "email", "", "User email address")
	cmd.Flags().StringVar(&f.bio, "bio", "", "Optional bio")
	cmd.Flags().StringVar(&f.avatarURL, "avatar-url", "", "Optional avatar URL")
}

func (f *recordFlags) record(cmd *cobra.Command) *user.Record {
	opts := user.Options{
		Name:  f.name,
		Email: f.email,
	}
	if cmd.Flags().Changed("bio") {
		opts.Bio = &f.bio
	}
	if cmd.Flags().Changed("avatar-url") {
		opts.AvatarURL = &f.avatarURL
	}
	return user.NewWithClock(opts, recordClock)
}
