// Package docreader runs one interactive document-to-LLM session: ask for a
// file, extract its text, ask for an instruction, send both to the model and
// print the reply.
package docreader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"doc-reader/internal/chunker"
	"doc-reader/internal/extract"
	"doc-reader/internal/llm"
)

// State is a step of the session.
type State int

const (
	StateAwaitingCredential State = iota
	StateAwaitingFilePath
	StateAwaitingFormatDispatch
	StateAwaitingInstruction
	StateAwaitingReply
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateAwaitingCredential:
		return "awaiting_credential"
	case StateAwaitingFilePath:
		return "awaiting_file_path"
	case StateAwaitingFormatDispatch:
		return "awaiting_format_dispatch"
	case StateAwaitingInstruction:
		return "awaiting_instruction"
	case StateAwaitingReply:
		return "awaiting_reply"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	PromptFilePath    = "Enter the full path to your PDF or DOCX file: "
	PromptInstruction = "Enter a prompt for the LLM (e.g., summarize this document): "
)

// CredentialSource provides the model credential at startup.
type CredentialSource interface {
	Credential() string
	CredentialEnv() string
}

// Options wires a Session. In, Out, Credentials, NewLLM and Extractor are required.
type Options struct {
	In          io.Reader
	Out         io.Writer
	Log         *slog.Logger
	Credentials CredentialSource
	NewLLM      llm.Factory
	Extractor   extract.Extractor
	// MaxInputTokens caps the words of extracted text sent to the model; 0 means no cap.
	MaxInputTokens int
}

// Session is a single, strictly sequential run. It is not reusable.
type Session struct {
	prompt    *Prompter
	out       io.Writer
	log       *slog.Logger
	creds     CredentialSource
	newLLM    llm.Factory
	extractor extract.Extractor
	maxTokens int

	state State
}

func NewSession(opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Session{
		prompt:    NewPrompter(opts.In, opts.Out),
		out:       opts.Out,
		log:       log,
		creds:     opts.Credentials,
		newLLM:    opts.NewLLM,
		extractor: opts.Extractor,
		maxTokens: opts.MaxInputTokens,
	}
}

// State reports where the session stopped (or currently is).
func (s *Session) State() State { return s.state }

// Run drives the session to Done or Aborted. On abort it prints one
// "Error: ..." line and returns an *Error; nothing is retried.
func (s *Session) Run(ctx context.Context) error {
	s.state = StateAwaitingCredential
	client, err := s.connect(ctx)
	if err != nil {
		return s.abort(err)
	}

	s.state = StateAwaitingFilePath
	path, err := s.askPath()
	if err != nil {
		return s.abort(err)
	}

	s.state = StateAwaitingFormatDispatch
	text, err := s.extract(ctx, path)
	if err != nil {
		return s.abort(err)
	}
	fmt.Fprintln(s.out, "\nFile content extracted successfully!")
	fmt.Fprintln(s.out)

	s.state = StateAwaitingInstruction
	instruction, err := s.askInstruction()
	if err != nil {
		return s.abort(err)
	}

	s.state = StateAwaitingReply
	reply, err := s.complete(ctx, client, text, instruction)
	if err != nil {
		return s.abort(err)
	}

	fmt.Fprintln(s.out, "\nLLM Response:")
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, reply)
	s.state = StateDone
	s.log.Info("session done", "reply_chars", len(reply))
	return nil
}

func (s *Session) connect(ctx context.Context) (llm.Client, error) {
	if s.creds == nil || s.creds.Credential() == "" {
		env := "the API key"
		if s.creds != nil {
			env = s.creds.CredentialEnv()
		}
		return nil, &Error{
			Kind:    KindConfigurationMissing,
			Message: fmt.Sprintf("API key not found. Set %s in your environment or .env file.", env),
		}
	}
	client, err := s.newLLM(ctx, s.creds.Credential())
	if err != nil {
		return nil, &Error{Kind: KindConfigurationMissing, Message: "Could not configure the LLM client.", Err: err}
	}
	return client, nil
}

func (s *Session) askPath() (string, error) {
	answer, err := s.prompt.Ask(PromptFilePath)
	if err != nil {
		return "", &Error{Kind: KindFileNotFound, Message: "Could not read the file path.", Err: err}
	}
	path := cleanPath(answer)
	if path == "" {
		return "", &Error{Kind: KindFileNotFound, Message: "File not found! Please provide a valid file path."}
	}
	if _, err := os.Stat(path); err != nil {
		return "", &Error{
			Kind:    KindFileNotFound,
			Message: fmt.Sprintf("File not found at '%s'. Please provide a valid file path.", path),
			Err:     err,
		}
	}
	return path, nil
}

func (s *Session) extract(ctx context.Context, path string) (string, error) {
	format, err := extract.FormatFromPath(path)
	if err != nil {
		return "", &Error{
			Kind:    KindUnsupportedFormat,
			Message: "Unsupported file format. Please provide a PDF or DOCX file.",
			Err:     err,
		}
	}
	fmt.Fprintf(s.out, "Extracting text from %s...\n", strings.ToUpper(string(format)))
	text, err := s.extractor.Extract(ctx, path, format)
	if err != nil {
		kind := KindExtractionFailure
		if errors.Is(err, extract.ErrFileNotFound) {
			kind = KindFileNotFound
		}
		return "", &Error{
			Kind:    kind,
			Message: "Failed to extract content from the file. Ensure the file is not corrupted.",
			Err:     err,
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", &Error{Kind: KindExtractionFailure, Message: "Failed to extract content from the file.", Err: extract.ErrEmptyContent}
	}
	s.log.Info("text extracted", "path", path, "format", format, "chars", len(text))
	return text, nil
}

func (s *Session) askInstruction() (string, error) {
	instruction, err := s.prompt.Ask(PromptInstruction)
	if err != nil {
		return "", &Error{Kind: KindEmptyInstruction, Message: "Could not read the prompt.", Err: err}
	}
	if instruction == "" {
		return "", &Error{Kind: KindEmptyInstruction, Message: "Prompt cannot be empty."}
	}
	return instruction, nil
}

func (s *Session) complete(ctx context.Context, client llm.Client, text, instruction string) (string, error) {
	if cut, truncated := chunker.Truncate(text, s.maxTokens); truncated {
		fmt.Fprintf(s.out, "Warning: the document was truncated to its first %d words.\n", s.maxTokens)
		s.log.Warn("input truncated", "max_tokens", s.maxTokens, "tokens", chunker.CountTokens(text))
		text = cut
	}
	fmt.Fprintln(s.out, "\nProcessing with the LLM. This may take a moment...")
	reply, err := client.Complete(ctx, text, instruction)
	if err != nil {
		return "", &Error{Kind: KindInferenceFailure, Message: "Failed to process the content with the LLM.", Err: err}
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", &Error{Kind: KindInferenceFailure, Message: "Failed to process the content with the LLM.", Err: llm.ErrEmptyResponse}
	}
	return reply, nil
}

func (s *Session) abort(err error) error {
	from := s.state
	s.state = StateAborted
	var se *Error
	if !errors.As(err, &se) {
		se = &Error{Kind: kindForState(from), Message: "Unexpected failure.", Err: err}
	}
	if se.Err != nil {
		fmt.Fprintf(s.out, "Error: %s (%v)\n", se.Message, se.Err)
	} else {
		fmt.Fprintf(s.out, "Error: %s\n", se.Message)
	}
	s.log.Info("session aborted", "state", from.String(), "kind", se.Kind, "err", se.Err)
	return se
}

// kindForState is the kind of an unclassified failure raised while in state.
func kindForState(state State) Kind {
	switch state {
	case StateAwaitingCredential:
		return KindConfigurationMissing
	case StateAwaitingFilePath:
		return KindFileNotFound
	case StateAwaitingFormatDispatch:
		return KindExtractionFailure
	case StateAwaitingInstruction:
		return KindEmptyInstruction
	default:
		return KindInferenceFailure
	}
}
