package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
)

var (
	companyName string
	companyNIT  string

	companyID string
	email     string
	password  string
	fullname  string

	actorID    string
	importFile string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones de base de datos",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer c.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "migraciones aplicadas")
		return nil
	},
}

var createCompanyCmd = &cobra.Command{
	Use:   "create-company",
	Short: "Crea una empresa",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer c.Close()
		return runCreateCompany(cmd.Context(), cmd.OutOrStdout(), c.Deps.CompanyUC, companyName, companyNIT)
	},
}

var createSuperuserCmd = &cobra.Command{
	Use:   "create-superuser",
	Short: "Crea un administrador con acceso total a la empresa",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer c.Close()
		return runCreateSuperuser(cmd.Context(), cmd.OutOrStdout(), c.Deps.AuthUC, companyID, email, password, fullname)
	},
}

var importInventoryCmd = &cobra.Command{
	Use:   "import-inventory",
	Short: "Importa productos desde un CSV o XLSX",
	Long: `Importa productos con el mismo formato que POST /api/app/inventory-csv.

Columnas: group_id, code, name, photo, total_in_storage, total_in_shops,
selling_price, buying_price, usd_price, provider_id. La primera fila es el encabezado.
Si una fila falla no se guarda ningún producto.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer c.Close()
		return runImportInventory(cmd.Context(), cmd.OutOrStdout(), c.Deps.ProductUC, companyID, actorID, importFile)
	},
}

func init() {
	createCompanyCmd.Flags().StringVar(&companyName, "name", "", "nombre de la empresa")
	createCompanyCmd.Flags().StringVar(&companyNIT, "nit", "", "NIT sin dígito de verificación")
	_ = createCompanyCmd.MarkFlagRequired("name")
	_ = createCompanyCmd.MarkFlagRequired("nit")

	createSuperuserCmd.Flags().StringVar(&companyID, "company", "", "id de la empresa")
	createSuperuserCmd.Flags().StringVar(&email, "email", "", "email del administrador")
	createSuperuserCmd.Flags().StringVar(&password, "password", "", "contraseña")
	createSuperuserCmd.Flags().StringVar(&fullname, "fullname", "", "nombre completo (por defecto el email)")
	for _, f := range []string{"company", "email", "password"} {
		_ = createSuperuserCmd.MarkFlagRequired(f)
	}

	importInventoryCmd.Flags().StringVar(&companyID, "company", "", "id de la empresa")
	importInventoryCmd.Flags().StringVar(&actorID, "user", "", "usuario al que se atribuye la importación")
	importInventoryCmd.Flags().StringVar(&importFile, "file", "", "ruta del CSV o XLSX")
	for _, f := range []string{"company", "user", "file"} {
		_ = importInventoryCmd.MarkFlagRequired(f)
	}
}

type companyCreator interface {
	Create(ctx context.Context, name, nit string) (*dto.CompanyResponse, error)
}

type superuserCreator interface {
	CreateSuperuser(ctx context.Context, companyID, email, password, fullname string) (*dto.UserResponse, error)
}

type inventoryImporter interface {
	Import(ctx context.Context, companyID, actorID, filename string, r io.Reader) (*dto.ImportResult, error)
}

func runCreateCompany(ctx context.Context, out io.Writer, uc companyCreator, name, nit string) error {
	company, err := uc.Create(ctx, name, nit)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "empresa creada: %s (%s)\n", company.ID, company.Name)
	return nil
}

func runCreateSuperuser(ctx context.Context, out io.Writer, uc superuserCreator, companyID, email, password, fullname string) error {
	user, err := uc.CreateSuperuser(ctx, companyID, email, password, fullname)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "superusuario creado: %s (%s)\n", user.ID, user.Email)
	return nil
}

func runImportInventory(ctx context.Context, out io.Writer, uc inventoryImporter, companyID, actorID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()
	res, err := uc.Import(ctx, companyID, actorID, filepath.Base(path), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d productos\n", res.Success, res.Created)
	return nil
}
