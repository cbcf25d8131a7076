package ai

import "fmt"

const teamResponsibilities = `**Team Responsibilities Reference (for use by AI):**

**Product Design**
- Creating wireframes and prototypes
- Collaborating with engineering/product teams
- Presenting designs to stakeholders
- Building and maintaining design systems
- Conducting user research (interviews, usability tests)

**Program Management**
- Managing admissions processes and campus deployments
- Onboarding and training BOAs/PMAs/PMs
- Tracking progress of new hires
- Coordinating logistics for campus readiness
- Regularly updating stakeholders

**Accounting**
- Recording transactions in ERP
- Invoice validation and payment reconciliation
- Preparing budgets and analyzing spending
- Processing refunds
- Filing statutory returns (GST, TDS, etc.)

**Content Team**
- Writing web copy and microcopy
- Creating scripts, brochures, social media posts
- Translating/localizing assets
- Drafting email newsletters and presentation decks
- Video subtitle writing and influencer content scripting`

// UseCaseSystemPrompt instructs the model to return a JSON array of four use cases.
const UseCaseSystemPrompt = `You are an expert in workflow automation and n8n. Generate exactly 4 DISTINCT and DIFFERENT practical use cases for workflow automation based on the given department and task. Each use case MUST be unique, specific, actionable, and suitable for n8n implementation.

IMPORTANT: Return ONLY a JSON array of exactly 4 strings. Each string should be a complete, different use case description. Do not include any other text, explanations, or formatting.

Example format: ["Use case 1 description", "Use case 2 description", "Use case 3 description", "Use case 4 description"]

Make sure each use case covers a different aspect or workflow within the department and task area.

` + teamResponsibilities

const rubric = `Give a score out of 50 based on the following criteria: - Clarity of Use Case (10 points) - Node Selection (10 points) - Node Connectivity (10 points) - Optimization & Simplicity (10 points) - Documentation & Naming Clarity (10 points). Always provide evaluation feedback regardless of whether the workflow matches the use case. IMPORTANT: You MUST return ONLY a valid JSON object with no additional text. The JSON must have these exact fields: "matched" (boolean), "correct" (string - what they did well), "lacking" (string - areas for improvement), "suggestions" (string - constructive recommendations), "scores" (object with clarityOfUseCase, nodeSelection, nodeConnectivity, optimizationSimplicity, documentationNaming as numbers), "totalScore" (number - sum out of 50), and "verdict" (string - final short assessment). If the workflow doesn't match the use case, set matched to false but still provide constructive feedback.`

// WorkflowTextSystemPrompt scores a workflow described in prose.
const WorkflowTextSystemPrompt = `You are a workflow evaluator for n8n-based automation systems. The user will give you a use case and a written description of their n8n workflow. Your task is to: 1. Understand the use case 2. Follow the described workflow step by step 3. Identify what they did well 4. Point out areas for improvement 5. ` + rubric

// WorkflowJSONSystemPrompt scores an exported n8n workflow document.
const WorkflowJSONSystemPrompt = `You are a workflow evaluator for n8n-based automation systems. The user will give you a use case and their n8n JSON workflow. Your task is to: 1. Understand the use case 2. Analyze their JSON workflow step by step 3. Identify what they did well 4. Point out areas for improvement 5. ` + rubric

// UseCasePrompt builds the user turn for use-case generation.
func UseCasePrompt(department, task string) string {
	return fmt.Sprintf("Department: %s\nTask: %s\n\nGenerate 4 DISTINCT workflow automation use cases that would be relevant for this department and task. Each use case must be different and cover different aspects of the work.", department, task)
}

// WorkflowTextPrompt builds the user turn for a prose workflow evaluation.
func WorkflowTextPrompt(useCase, workflowText string) string {
	return fmt.Sprintf("Use Case: %s\n\nWorkflow Description:\n%s\n\nEvaluate this workflow against the use case and respond with the JSON object only.", useCase, workflowText)
}

// WorkflowJSONPrompt builds the user turn for a JSON workflow evaluation. document should
// already be indented for readability.
func WorkflowJSONPrompt(useCase, document string) string {
	return fmt.Sprintf("Use Case: %s\n\nn8n Workflow JSON: %s\n\nEvaluate this n8n JSON workflow against the use case. Provide detailed evaluation with scores for each criterion, regardless of whether they match perfectly. If the workflow doesn't match the use case, mention this in your evaluation but still provide constructive feedback on the workflow itself.", useCase, document)
}
