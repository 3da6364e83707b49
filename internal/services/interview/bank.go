package services

import "github.com/coddink/interview-backend/internal/models"

// DefaultQuestionBank is the built-in practice set.
func DefaultQuestionBank() []models.Question {
	return []models.Question{
		{ID: 1, Category: "behavioral", Text: "Tell me about a time you disagreed with a teammate. How did you resolve it?"},
		{ID: 2, Category: "behavioral", Text: "Describe a project you are proud of and your specific contribution to it."},
		{ID: 3, Category: "behavioral", Text: "Tell me about a time you missed a deadline. What happened?"},
		{ID: 4, Category: "behavioral", Text: "How do you handle receiving critical feedback on your work?"},
		{ID: 5, Category: "system-design", Text: "Design a URL shortening service. Walk through storage, redirects and scale."},
		{ID: 6, Category: "system-design", Text: "How would you design a rate limiter for a public API?"},
		{ID: 7, Category: "system-design", Text: "Design a notification system that delivers email and push messages."},
		{ID: 8, Category: "system-design", Text: "How would you shard a relational database as traffic grows?"},
		{ID: 9, Category: "algorithms", Text: "How would you find the k most frequent elements in a large stream?"},
		{ID: 10, Category: "algorithms", Text: "Explain the trade-offs between a hash map and a balanced tree."},
		{ID: 11, Category: "algorithms", Text: "When is binary search applicable and how do you avoid its classic bugs?"},
		{ID: 12, Category: "algorithms", Text: "Describe an approach to detect a cycle in a linked list."},
		{ID: 13, Category: "databases", Text: "What does a transaction isolation level actually guarantee? Compare two of them."},
		{ID: 14, Category: "databases", Text: "When would you add an index, and what does it cost you?"},
		{ID: 15, Category: "databases", Text: "Explain optimistic versus pessimistic locking with an example."},
		{ID: 16, Category: "networking", Text: "What happens, step by step, when you type a URL into a browser?"},
		{ID: 17, Category: "networking", Text: "Compare long polling, server-sent events and websockets."},
		{ID: 18, Category: "career", Text: "Why do you want to work at this company?"},
		{ID: 19, Category: "career", Text: "Where do you see your career in five years?"},
		{ID: 20, Category: "career", Text: "What is the most important thing you look for in a team?"},
	}
}
