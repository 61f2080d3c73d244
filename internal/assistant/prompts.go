package assistant

import "fmt"

func explainPrompt(topic string) string {
	return fmt.Sprintf(`Explain **%[1]s** in a clear, structured way for a student who is new to this concept.

Format your response using this structure:

## 🎯 What is %[1]s?
A simple, one-paragraph definition that anyone can understand.

## 💡 Key Points
- **Point 1**: Brief explanation
- **Point 2**: Brief explanation
- **Point 3**: Brief explanation

## 🔧 How It Works
Explain the mechanism in simple terms. Use an analogy if helpful.

## 📱 Real-World Example
One concrete, relatable example of how this is used in practice.

## ✅ Quick Summary
One sentence that captures the essence of this topic.

Keep it concise, use bullet points and avoid jargon.`, topic)
}

func deepPrompt(topic string) string {
	return fmt.Sprintf(`Provide a **comprehensive technical explanation** of **%s** for a student preparing for exams.

Use these sections:
## 📚 In-Depth Overview
## 🔬 Technical Details (core concepts, step-by-step working, formulas or algorithms if applicable)
## 🏗️ Architecture/Components
## ⚡ Advantages
## ⚠️ Limitations
## 🌍 Applications
## 🔗 Related Concepts

Be thorough but organized. Use markdown formatting for clarity.`, topic)
}

func referencesPrompt(topic string) string {
	return fmt.Sprintf(`Suggest learning resources and study materials for **%s**.

Use these sections:
## 📖 Official Documentation
## 📺 Video Tutorials and Courses
## 📚 Books (title, author, what it covers)
## 💻 Hands-On Practice
## 📝 Quick References
## 🎓 Study Strategy (three ordered steps)

Prefer free and accessible resources.`, topic)
}

const quizInstructions = `Generate %d multiple-choice questions that TEST the student's understanding of the CONCEPTS in this topic.

Rules:
- Do NOT ask about syllabus structure, course codes, lab numbers or chapter titles.
- Ask about concepts, definitions, applications and technical knowledge only.
- Use only the concepts and content from the provided context.
- Each question has exactly 4 options.
- "answer" is the 0-based index of the correct option (0, 1, 2 or 3).
- Number the questions with "id" starting at 1.
- Output strict JSON: {"questions": [{"id": 1, "question": "...", "options": ["A", "B", "C", "D"], "answer": 2}]}`

func quizPrompt(n int, topic, context string) string {
	return fmt.Sprintf(quizInstructions, n) + "\n\nTopic: " + topic + "\n\nContext:\n" + context
}

const labExplanationPrompt = `You are a university lab instructor explaining an experiment to a student.

Use these sections:
## 🎯 Aim (one sentence)
## 📚 Theory & Background (what it is about and why it matters)
## 🔧 How It Works (overview, key components, process flow)
## 📊 Expected Outcomes
## 🔗 Related Concepts

Keep it clear, academic and suitable for a lab record. Do not include any code.`

const labPseudocodePrompt = "Generate a detailed algorithmic pseudocode for this experiment.\n\n" +
	"Use these sections:\n" +
	"## 📋 Algorithm Overview\n" +
	"## 📥 Input\n" +
	"## 📤 Output\n" +
	"## 🧮 Algorithm Steps (a fenced block starting with ALGORITHM: <name>, numbered START to STOP, using ← for assignment and explicit END FOR / END IF)\n" +
	"## 🔍 Step-by-Step Explanation\n" +
	"## ⏱️ Complexity Analysis (time and space)\n\n" +
	"Use standard pseudocode conventions. No programming language syntax."

const labVivaPrompt = `Generate viva questions with answers for this lab experiment.

## 🎤 Viva Questions & Answers
### Basic Level Questions (three, with 2-3 sentence answers)
### Intermediate Level Questions (three: how it works, components, applications)
### Advanced Level Questions (two: alternatives and limitations)
## 💡 Tips for Viva

Format each as **Qn: question** followed by a "> **Answer**:" line.
Focus on deep understanding rather than memorisation.`

func planPrompt(question string) string {
	return fmt.Sprintf(`Analyze this question and break it into 2-3 specific sub-queries for retrieving information.

Question: %s

Return JSON: {"queries": ["sub-query 1", "sub-query 2", "sub-query 3"]}

Example:
Question: "Compare MapReduce and Spark"
Output: {"queries": ["MapReduce architecture and features", "Apache Spark architecture and features", "MapReduce vs Spark performance"]}`, question)
}

func evaluationPrompt(question, answer string) string {
	return fmt.Sprintf(`Evaluate if this answer sufficiently addresses the question.

Question: %s

Answer: %s

Respond with JSON:
{"sufficient": true or false, "missing_info": "what information is missing, if any", "refinement_query": "a more specific query to retrieve the missing information, if needed"}`, question, answer)
}

func researchExplanationPrompt(topic string) string {
	return fmt.Sprintf(`Explain the following topic in depth for a student doing research:

Topic: %s

Include:
1. **Definition**: clear, precise definition
2. **Key Concepts**: important sub-concepts and terminology
3. **How It Works**: technical explanation
4. **Applications**: real-world use cases
5. **Related Topics**: what else to study
6. **Common Misconceptions**: what students often get wrong

Use the syllabus context but provide comprehensive coverage.`, topic)
}

func researchDirectionsPrompt(topic string) string {
	return fmt.Sprintf(`Based on %s, suggest 3 interesting research directions or project ideas for a student.

For each direction give:
1. **Title**: a clear research question or project idea
2. **Why It's Interesting**: relevance and importance
3. **Approach**: how to get started
4. **Skills Needed**: what the student should learn

Keep it practical for undergraduate/graduate level.`, topic)
}

func summaryPrompt(topic, papers string) string {
	return fmt.Sprintf(`Based on these research papers about %s, provide:

1. **Key Findings**: main discoveries and contributions
2. **Common Themes**: what most papers agree on
3. **Gaps in Research**: what is still unexplored
4. **Future Directions**: where research is heading
5. **Practical Implications**: how this can be applied

Papers:
%s`, topic, papers)
}

const projectIdeasPrompt = `Based on the context provided, suggest 5 innovative project ideas for a student.

For each project provide a title, a 2-3 sentence description, the subjects used, a difficulty
(Easy / Medium / Hard) and what makes it innovative.

Return JSON:
{"projects": [{"id": 1, "title": "Project Name", "description": "...", "subjects_used": ["Topic1", "Topic2"], "difficulty": "Medium", "innovation": "What makes it special"}]}`

var projectDetailPrompts = map[string]string{
	"detailed": `Provide a detailed breakdown of this project:

1. **Problem Statement**: what problem does it solve?
2. **Objectives**: 3-4 clear objectives
3. **Scope**: what is included and what is not
4. **Expected Outcomes**: what will be delivered
5. **Key Challenges**: technical challenges to expect

Format as markdown with clear sections.`,
	"roadmap": `Create a detailed implementation roadmap for this project in five phases:

1. **Phase 1: Research & Planning** (Week 1-2)
2. **Phase 2: Design & Architecture** (Week 3-4)
3. **Phase 3: Core Implementation** (Week 5-8)
4. **Phase 4: Testing & Refinement** (Week 9-10)
5. **Phase 5: Documentation & Presentation** (Week 11-12)

List concrete tasks and deliverables for each phase, not generic ones.`,
	"concepts": `Explain the key concepts a student needs to understand before starting this project.

For each concept give its name, a simple explanation with examples, why the project needs it and
where to learn more. Focus on foundational understanding, not code.`,
}

func recommendPrompt(projectType, requirements string) string {
	if requirements == "" {
		requirements = "Standard project requirements"
	}
	return fmt.Sprintf(`Recommend a complete tech stack for this project:

Project Type: %s
Requirements: %s

Use these sections:
## 🎯 Recommended Tech Stack
### Frontend/Client (primary choice, why, learning curve)
### Backend/Server (primary choice, why, key features)
### Database (primary choice, why, best for)
### Additional Tools
## 📚 Getting Started (three steps)
## ⚠️ Things to Consider

Be specific and practical. Focus on what a student can realistically learn and use.`, projectType, requirements)
}

func comparePrompt(tech1, tech2, useCase string) string {
	if useCase == "" {
		useCase = "General project use"
	}
	return fmt.Sprintf(`Compare these two technologies for a student choosing between them:

Technology 1: %[1]s
Technology 2: %[2]s
Context: %[3]s

## 📊 %[1]s vs %[2]s
### Overview (a table of learning curve, performance, community and job market)
### ✅ %[1]s Pros / ❌ %[1]s Cons
### ✅ %[2]s Pros / ❌ %[2]s Cons
### 🎯 When to Choose %[1]s
### 🎯 When to Choose %[2]s
### 💡 Recommendation

Be honest and balanced.`, tech1, tech2, useCase)
}

var depthInstructions = map[string]string{
	"beginner":     "Use simple language, analogies, and avoid jargon. Assume no prior knowledge.",
	"intermediate": "Include technical details but explain them. Assume basic programming knowledge.",
	"advanced":     "Go deep into implementation details, edge cases, and advanced patterns.",
}

func conceptPrompt(concept, depth string) string {
	return fmt.Sprintf(`Explain this technical concept for a student:

Concept: %[1]s
Level: %[2]s

%[3]s

## 🎯 What is %[1]s?
## 💡 Why It Matters
## 🔧 How It Works
## 📝 Key Terms
## 💻 Simple Example (a short snippet or pseudocode with an explanation)
## 🔗 Related Concepts
## 📚 Next Steps`, concept, depth, depthInstructions[depth])
}

func codeGuidancePrompt(task, technology string) string {
	return fmt.Sprintf(`Provide code guidance for a student trying to:

Task: %s
Technology: %s

Do NOT write a complete implementation. Instead cover:
## 🎯 Understanding the Task
## 📋 Step-by-Step Approach
## 💻 Key Code Patterns (two small snippets of 5-10 lines, each with what it does)
## ⚠️ Common Mistakes
## 🔗 Resources

Help the student understand how to approach this, not just give them code to copy.`, task, technology)
}

const (
	chatAskPrompt = `The student is studying "%s" and asks a follow-up question.

Conversation so far:
%s

Question: %s

Answer directly and concisely, building on the conversation.`

	chatSimplifyPrompt = `The student is studying "%s" and found the explanation hard to follow.

Conversation so far:
%s

Request: %s

Re-explain the idea in much simpler words, using an everyday analogy and short sentences.`

	chatExamplePrompt = `The student is studying "%s" and wants concrete examples.

Conversation so far:
%s

Request: %s

Give two or three worked, concrete examples that make the idea tangible.`
)
