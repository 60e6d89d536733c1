package main

import (
	"context"
	"fmt"
	"strings"

	"schooltutor/logger"
	"schooltutor/models"
	"schooltutor/services"
	"schooltutor/services/chat"
	"schooltutor/services/classifier"
	"schooltutor/services/curriculum"

	"github.com/spf13/cobra"
)

const cliSessionID = "chatctl"

type rootOptions struct {
	dataPaths []string
	standard  string
	name      string
	stream    string
}

// offline bundles the curriculum-side components without an LLM.
type offline struct {
	classifier *classifier.Classifier
	extractor  *classifier.Extractor
	responder  *chat.CurriculumResponder
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "chatctl",
		Short:         "Inspect curriculum data and intent routing without running the server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringSliceVar(&opts.dataPaths, "data", []string{"assets/data/chatbot.json", "chatbot.json"}, "curriculum files to try in order")
	root.PersistentFlags().StringVar(&opts.standard, "standard", "", "standard to store in the session profile")
	root.PersistentFlags().StringVar(&opts.name, "name", "", "student name to store in the session profile")
	root.PersistentFlags().StringVar(&opts.stream, "stream", "", "stream to store in the session profile")

	root.AddCommand(newClassifyCmd(opts))
	root.AddCommand(newStandardsCmd(opts))
	root.AddCommand(newAskCmd(opts))

	return root
}

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <query>",
		Short: "Print the intent and extracted standard/subject for a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			intent := o.classifier.Classify(query, cliSessionID)
			info := o.extractor.ExtractQueryInfo(query, cliSessionID)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "intent:   %s\n", intent)
			fmt.Fprintf(out, "standard: %s\n", orNone(info.Standard))
			fmt.Fprintf(out, "subject:  %s\n", orNone(info.Subject))
			return nil
		},
	}
}

func newStandardsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "standards",
		Short: "List the standards in the loaded curriculum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), o.responder.StandardsResponse(cliSessionID).Response)
			return nil
		},
	}
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <query>",
		Short: "Answer a curriculum query from the loaded data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := opts.build(cmd.Context())
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")

			var text string
			switch o.classifier.Classify(query, cliSessionID) {
			case classifier.IntentStandards:
				text = o.responder.StandardsResponse(cliSessionID).Response
			case classifier.IntentCurriculum:
				text = o.responder.HandleCurriculumQuery(query, cliSessionID).Response
			default:
				text = "(would be answered by the tutor model)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func (opts *rootOptions) build(ctx context.Context) (*offline, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.Nop()

	data, _, err := curriculum.LoadFirst(ctx, curriculum.FileSources(opts.dataPaths), log)
	if err != nil {
		return nil, fmt.Errorf("failed to load curriculum from %s: %w", strings.Join(opts.dataPaths, ", "), err)
	}
	store := curriculum.NewStore(data)

	memory := services.NewMemoryService(1, log)
	memory.AddUserData(cliSessionID, models.SessionProfile{
		Name:     opts.name,
		Standard: opts.standard,
		Stream:   opts.stream,
	})

	aliases := classifier.NewAliasResolver(classifier.DefaultSubjectAliases)
	extractor := classifier.NewExtractor(store, memory, aliases)

	return &offline{
		classifier: classifier.NewClassifier(store, memory, aliases),
		extractor:  extractor,
		responder:  chat.NewCurriculumResponder(store, extractor, memory, log),
	}, nil
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
