package core

type Middleware func(Command) Command

type wrappedCommand struct {
	Command
	wrap func(ctx *Context) error
}

func (w *wrappedCommand) Run(ctx *Context) error { return w.wrap(ctx) }

// WithGuildOnly drops interactions that arrive outside a guild.
func WithGuildOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *Context) error {
				if ctx.Event.GuildID == "" {
					return RespondEphemeral(ctx.Session, ctx.Event, "This command only works in a server.")
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithVoiceRequired rejects the command when the invoking user is not in a
// voice channel.
func WithVoiceRequired() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *Context) error {
				if ctx.Voice == nil {
					return cmd.Run(ctx)
				}
				if _, err := ctx.Voice.FindUserVoiceState(ctx.GuildID(), ctx.UserID()); err != nil {
					return RespondEphemeral(ctx.Session, ctx.Event, "Join a voice channel first.")
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithSessionRequired rejects the command when the guild has no active
// playback session.
func WithSessionRequired() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *Context) error {
				if ctx.Dispatcher() == nil {
					return RespondEphemeral(ctx.Session, ctx.Event, "Nothing is playing right now.")
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// Apply wraps a command with middleware, outermost first.
func Apply(cmd Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		cmd = mws[i](cmd)
	}
	return cmd
}
