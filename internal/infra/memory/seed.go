package memory

import "spark-quiz/internal/domain"

// seedTechnologies is the default catalog.
func seedTechnologies() []domain.Technology {
	return []domain.Technology{
		{ID: 1, Name: "spark", DisplayName: "Apache Spark", Description: "Big Data & Traitement distribué", Icon: "🔥", Color: "bg-orange-100"},
		{ID: 2, Name: "git", DisplayName: "Git", Description: "Gestion de version", Icon: "🌱", Color: "bg-red-100"},
		{ID: 3, Name: "docker", DisplayName: "Docker", Description: "Conteneurisation & DevOps", Icon: "🐳", Color: "bg-blue-100"},
	}
}

// seedQuestions is the default question bank.
func seedQuestions() []domain.Question {
	return []domain.Question{
		{
			Technology:   "spark",
			QuestionText: "What is the primary data structure in Spark?",
			Options: []string{
				"RDD (Resilient Distributed Dataset)",
				"DataFrame",
				"Dataset",
				"Array",
			},
			CorrectAnswer: "RDD (Resilient Distributed Dataset)",
			Explanation:   "RDD is the fundamental data structure in Spark that represents an immutable, distributed collection of objects.",
			Category:      "RDD",
			Difficulty:    1,
		},
		{
			Technology:   "spark",
			QuestionText: "Which of the following is NOT a Spark component?",
			Options: []string{
				"Spark Core",
				"Spark SQL",
				"Spark ML",
				"Spark Database",
			},
			CorrectAnswer: "Spark Database",
			Explanation:   "Spark Database is not a component of Apache Spark. The main components are Spark Core, Spark SQL, Spark Streaming, MLlib, and GraphX.",
			Category:      "Spark Core",
			Difficulty:    1,
		},
		{
			Technology:   "git",
			QuestionText: "Quelle commande Git permet d'initialiser un nouveau dépôt ?",
			Options: []string{
				"git init",
				"git start",
				"git create",
				"git new",
			},
			CorrectAnswer: "git init",
			Explanation:   "La commande git init crée un nouveau dépôt Git vide dans le répertoire courant.",
			Category:      "Basics",
			Difficulty:    1,
		},
		{
			Technology:   "git",
			QuestionText: "Comment ajouter des fichiers à la zone de staging ?",
			Options: []string{
				"git add <fichier>",
				"git stage <fichier>",
				"git commit <fichier>",
				"git push <fichier>",
			},
			CorrectAnswer: "git add <fichier>",
			Explanation:   "git add permet d'ajouter des fichiers à la zone de staging.",
			Category:      "Basics",
			Difficulty:    1,
		},
		{
			Technology:   "docker",
			QuestionText: "Qu'est-ce qu'un Dockerfile ?",
			Options: []string{
				"Un fichier texte contenant les instructions pour construire une image Docker",
				"Un fichier de configuration pour Docker Compose",
				"Un fichier de logs Docker",
				"Un fichier binaire contenant une image Docker",
			},
			CorrectAnswer: "Un fichier texte contenant les instructions pour construire une image Docker",
			Explanation:   "Un Dockerfile contient toutes les commandes nécessaires pour assembler une image Docker.",
			Category:      "Basics",
			Difficulty:    2,
		},
		{
			Technology:   "docker",
			QuestionText: "Quelle est la différence entre une image et un conteneur Docker ?",
			Options: []string{
				"Une image est un template en lecture seule, un conteneur est une instance exécutable de l'image",
				"Une image est un conteneur en cours d'exécution",
				"Il n'y a pas de différence",
				"Un conteneur est un template, une image est son instance",
			},
			CorrectAnswer: "Une image est un template en lecture seule, un conteneur est une instance exécutable de l'image",
			Explanation:   "Une image Docker est un template en lecture seule, un conteneur en est une instance exécutable.",
			Category:      "Concepts",
			Difficulty:    2,
		},
	}
}
