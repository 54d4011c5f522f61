package main

import (
	"log"
	"os"
	"time"

	"demarches-be/internal/entity"
	"demarches-be/internal/mapper"
	"demarches-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func strPtr(s string) *string {
	return &s
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDB(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding procedure templates...")

	templates := []*entity.ProcedureTemplate{
		{
			Title:       "Demande de logement social",
			Description: strPtr("Constituer un dossier de demande de logement social (formulaire Cerfa 14069)."),
			Category:    "logement",
			Requirements: []string{
				"Pièce d'identité",
				"Justificatif de domicile",
				"Avis d'imposition",
				"Bulletin de salaire",
			},
			Active:       true,
			DisplayOrder: 1,
		},
		{
			Title:       "Renouvellement de passeport",
			Description: strPtr("Renouveler un passeport arrivé à expiration."),
			Category:    "identite",
			Requirements: []string{
				"Pièce d'identité",
				"Justificatif de domicile",
				"Photo d'identité",
				"Timbre fiscal",
			},
			Active:       true,
			DisplayOrder: 2,
		},
		{
			Title:       "Demande d'aide au logement (APL)",
			Description: strPtr("Demander l'aide personnalisée au logement auprès de la CAF."),
			Category:    "logement",
			Requirements: []string{
				"Pièce d'identité",
				"Relevé d'identité bancaire",
				"Contrat de bail",
				"Avis d'imposition",
			},
			Active:       true,
			DisplayOrder: 3,
		},
		{
			Title:       "Inscription sur les listes électorales",
			Description: strPtr("S'inscrire sur les listes électorales de sa commune."),
			Category:    "citoyennete",
			Requirements: []string{
				"Pièce d'identité",
				"Justificatif de domicile",
			},
			Active:       true,
			DisplayOrder: 4,
		},
		{
			Title:       "Demande d'acte de naissance",
			Description: strPtr("Obtenir une copie intégrale d'acte de naissance."),
			Category:    "etat-civil",
			Requirements: []string{
				"Pièce d'identité",
				"Livret de famille",
			},
			Active:       true,
			DisplayOrder: 5,
		},
		{
			Title:       "Ouverture d'un compte bancaire",
			Description: strPtr("Constituer le dossier d'ouverture d'un compte courant."),
			Category:    "banque",
			Requirements: []string{
				"Pièce d'identité",
				"Justificatif de domicile",
				"Bulletin de salaire",
			},
			Active:       true,
			DisplayOrder: 6,
		},
	}

	procedureMapper := mapper.NewProcedureMapper()
	created, skipped := 0, 0

	for _, tpl := range templates {
		var count int64
		db.Table("procedure_templates").Where("title = ?", tpl.Title).Count(&count)
		if count > 0 {
			color.Yellow("Template %q already exists, skipping...", tpl.Title)
			skipped++
			continue
		}

		tpl.Id = uuid.New()
		tpl.CreatedAt = time.Now()

		if err := db.Create(procedureMapper.TemplateToModel(tpl)).Error; err != nil {
			color.Red("Error creating template %q: %v", tpl.Title, err)
			continue
		}
		color.Green("Created template: %s (%d requirements)", tpl.Title, len(tpl.Requirements))
		created++
	}

	color.Cyan("Template seeding completed: %d created, %d skipped.", created, skipped)
}
