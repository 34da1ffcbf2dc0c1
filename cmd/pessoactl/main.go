package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/raywall/crud-pessoa/models"
	"github.com/raywall/crud-pessoa/pessoa"
	"github.com/raywall/crud-pessoa/pkg/config"
	"github.com/raywall/crud-pessoa/pkg/logger"
	"github.com/raywall/crud-pessoa/store"
	"github.com/raywall/crud-pessoa/store/backend"
	"github.com/spf13/cobra"
)

// app concentra as dependências compartilhadas pelos subcomandos.
type app struct {
	out        io.Writer
	configPath string
	format     string

	session store.Session
	closeFn backend.CloseFunc
	svc     *pessoa.Service
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "aviso: falha ao ler .env: %v\n", err)
	}

	a := &app{out: os.Stdout}
	if err := newRootCmd(a).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "erro (%s): %v\n", pessoa.KindOf(err), err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "pessoactl",
		Short:         "CLI para cadastro de pessoas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeFn == nil {
				return nil
			}
			return a.closeFn()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("CONFIG_FILE_PATH"), "Arquivo de configuração (env CONFIG_FILE_PATH)")
	root.PersistentFlags().StringVar(&a.format, "out", "text", "Formato de saída: json|text")

	root.AddCommand(newCriarCmd(a), newListarCmd(a), newRemoverCmd(a))
	return root
}

// init carrega a configuração e abre o backend, exceto quando uma sessão já
// foi injetada.
func (a *app) init(ctx context.Context) error {
	if a.format != "json" && a.format != "text" {
		return fmt.Errorf("--out inválido %q (use json|text)", a.format)
	}
	if a.session == nil {
		cfg, err := config.NewLoader().Load(ctx, a.configPath)
		if err != nil {
			return err
		}
		// Na CLI apenas erros são logados
		cfg.Logging.Level = "error"
		logger.Configure(cfg.Logging, cfg.Service.Name)

		session, closeFn, err := backend.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		a.session, a.closeFn = session, closeFn
	}
	a.svc = pessoa.NewService(a.session)
	return nil
}

func newCriarCmd(a *app) *cobra.Command {
	var nome, sobrenome, cpf, nascimento string
	cmd := &cobra.Command{
		Use:   "criar",
		Short: "Cadastra uma nova pessoa",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.svc.Create(cmd.Context(), nome, sobrenome, cpf, nascimento)
			if err != nil {
				return err
			}
			return a.print([]models.Pessoa{*p}, p)
		},
	}
	cmd.Flags().StringVar(&nome, "nome", "", "Nome")
	cmd.Flags().StringVar(&sobrenome, "sobrenome", "", "Sobrenome")
	cmd.Flags().StringVar(&cpf, "cpf", "", "CPF com 11 dígitos")
	cmd.Flags().StringVar(&nascimento, "nascimento", "", "Data de nascimento")
	return cmd
}

func newListarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "listar",
		Short: "Lista as pessoas cadastradas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pessoas, err := a.svc.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(pessoas, pessoas)
		},
	}
}

func newRemoverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remover <id>",
		Short: "Remove uma pessoa pelo ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id deve ser um número inteiro: %q", args[0])
			}
			if err := a.svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			if a.format == "json" {
				return a.printJSON(map[string]any{"removido": id})
			}
			_, err = fmt.Fprintf(a.out, "pessoa %d removida\n", id)
			return err
		},
	}
}

func (a *app) print(rows []models.Pessoa, v any) error {
	if a.format == "json" {
		return a.printJSON(v)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOME\tSOBRENOME\tCPF\tNASCIMENTO")
	for _, p := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Nome, p.Sobrenome, p.CPF, p.DataNascimento)
	}
	return tw.Flush()
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
