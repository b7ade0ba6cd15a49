package rules

import "github.com/maiconbalke/MVP-Review-Tools/internal/model"

// defaultRegistry lists every built-in rule in evaluation order. Findings
// appear in the result in this order.
var defaultRegistry = []Rule{
	fileMissingRule{
		id:             "R001",
		category:       "nodejs",
		description:    "Checks for package.json in the repository root",
		relPath:        "package.json",
		severity:       model.SeverityLow,
		message:        "Missing package.json file.",
		recommendation: "Commit a package.json if this is a Node.js project.",
	},
	fileMissingRule{
		id:             "R002",
		category:       "typescript",
		description:    "Checks for tsconfig.json in the repository root",
		relPath:        "tsconfig.json",
		severity:       model.SeverityInfo,
		message:        "Missing tsconfig.json file.",
		recommendation: "Commit a tsconfig.json if this is a TypeScript project.",
	},
	fileMissingRule{
		id:             "R003",
		category:       "docker",
		description:    "Checks for a Dockerfile in the repository root",
		relPath:        "Dockerfile",
		severity:       model.SeverityInfo,
		message:        "Missing Dockerfile.",
		recommendation: "Add a Dockerfile to containerize the application.",
	},
	fileMissingRule{
		id:             "R010",
		category:       "documentation",
		description:    "Checks if a README.md file exists in the repository root",
		relPath:        "README.md",
		severity:       model.SeverityMedium,
		message:        "README.md file is missing.",
		recommendation: "Add a README.md explaining purpose, installation and usage.",
	},
	fileMissingRule{
		id:             "R011",
		category:       "governance",
		description:    "Checks if a LICENSE file exists in the repository root",
		relPath:        "LICENSE",
		severity:       model.SeverityLow,
		message:        "LICENSE file is missing.",
		recommendation: "Add a LICENSE file defining the project license.",
	},
	fileMissingRule{
		id:             "R012",
		category:       "ci-cd",
		description:    "Checks for CI configuration (.github/workflows)",
		relPath:        ".github/workflows",
		severity:       model.SeverityMedium,
		message:        "No CI configuration found.",
		recommendation: "Set up continuous integration with GitHub Actions or another CI tool.",
	},
	filePresentRule{
		id:             "R013",
		category:       "security",
		description:    "Checks if a .env file was accidentally committed",
		relPath:        ".env",
		severity:       model.SeverityHigh,
		message:        ".env file committed to the repository.",
		recommendation: "Remove .env from version control and use secure environment variables.",
	},
	filePresentRule{
		id:             "R014",
		category:       "repository-hygiene",
		description:    "Checks if node_modules was committed",
		relPath:        "node_modules",
		severity:       model.SeverityMedium,
		message:        "node_modules directory committed to the repository.",
		recommendation: "Remove node_modules from version control and rely on the lockfile.",
	},
	dependenciesMissingRule{},
	devDependenciesOnlyRule{},
	privateFlagMissingRule{},
	localhostHardcodedRule{},
	fileMissingRule{
		id:             "R024",
		category:       "repository-hygiene",
		description:    "Checks for a .gitignore file",
		relPath:        ".gitignore",
		severity:       model.SeverityMedium,
		message:        ".gitignore file is missing.",
		recommendation: "Add an appropriate .gitignore to keep sensitive files out of version control.",
	},
}

// Registry returns the built-in rules in evaluation order.
func Registry() []Rule {
	return defaultRegistry
}
