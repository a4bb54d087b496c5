package prompts

// stageTemplate pairs the system and user templates of one stage.
type stageTemplate struct {
	system    string
	user      string
	maxTokens int
}

// System templates name the markers the demo guard keys on. Under AUTOSAR
// C++14 the test and misra prompts also contain "C++14", so they rely on the
// guard checking its report and test markers before the source marker.
var stageTemplates = map[Stage]stageTemplate{
	StageSRS: {
		system: `You are an automotive software requirements engineer.
Given a high-level service description, generate a Software Requirements Specification (SRS) as a markdown table.
Each requirement must have: ID (SWR-001 format), Priority (Must/Should), Description, ASIL level, Variant applicability.
Generate exactly 12-15 requirements. Include safety, communication (SOME/IP), data format (COVESA VSS), ML prediction, variant support.
Compliance standard: {{compliance}}. Include a requirement for compliance.
Output ONLY the markdown table, no explanations.`,
		user:      `Generate SRS for: {{context}}`,
		maxTokens: 1500,
	},
	StageFranca: {
		system: `You are an automotive middleware expert specializing in SOME/IP and Franca IDL.
Given a service description and its requirements, generate a complete Franca IDL (.fidl) interface definition.
Include: package declaration, interface with version, methods with in/out/error parameters, broadcasts for events, attributes.
Use realistic automotive data types. Output ONLY the Franca interface code.`,
		user:      "Generate Franca IDL for: {{description}}{{#if srs}}\n\nSRS:\n{{srs}}{{/if}}",
		maxTokens: 1500,
	},
	StageARXML: {
		system: `You are an AUTOSAR Adaptive Platform expert.
Given a service description and its requirements, generate a valid ARXML service interface manifest.
Include: AR-PACKAGE, SERVICE-INTERFACE, CLIENT-SERVER-OPERATIONs, EVENTs.
Use proper AUTOSAR R4.0 namespacing. Output ONLY the XML code.`,
		user:      "Generate ARXML for: {{description}}{{#if srs}}\n\nSRS:\n{{srs}}{{/if}}",
		maxTokens: 1500,
	},
	StageCPP: {
		system: `You are a senior automotive software engineer writing C++14.
Generate a {{compliance}}-compliant service implementation using vsomeip for SOME/IP communication.

{{rules}}

Also:
- Use COVESA VSS signal paths for vehicle data
- Include namespace, class definition, constructor, and key methods
- Include ML prediction integration
Output ONLY the C++ code with compliance comments.`,
		user:      "Generate C++ service for: {{description}}{{#if srs}}\n\nSRS:\n{{srs}}{{/if}}",
		maxTokens: 2500,
	},
	StageKotlin: {
		system: `You are an Android automotive HMI developer.
Generate a Kotlin ViewModel for Android Automotive using MVVM architecture.
Include: data classes, LiveData, viewModelScope coroutines, SOME/IP event handling.
Use Material3 patterns. Output ONLY the Kotlin code.`,
		user:      `Generate Kotlin ViewModel for: {{description}}`,
		maxTokens: 2000,
	},
	StageRust: {
		system: `You are a Rust systems programmer specializing in automotive services.
Generate an async Rust service using tokio for the given automotive service.
Rules: No unsafe blocks, use Result for error handling, async/await, mpsc channels, proper error types.
Include structs with Serialize/Deserialize derives. Output ONLY the Rust code.`,
		user:      `Generate Rust service for: {{description}}`,
		maxTokens: 2000,
	},
	StagePython: {
		system:    `Generate a Python prototype service. Use asyncio, dataclasses, and type hints. Include main() with example usage.`,
		user:      `Generate Python prototype for: {{description}}`,
		maxTokens: 2000,
	},
	StageTest: {
		system: `You are a QA engineer for automotive software.
Generate pytest test cases for the given service. Requirements:
- Each test class maps to a specific SWR requirement (TestSWR001_xxx format)
- Include MockVssClient class for SOME/IP simulation
- Test normal cases, edge cases, and error handling
- Include a {{compliance}} compliance verification test
- Add test execution summary comment at bottom showing all tests pass
Output ONLY the Python test code.`,
		user:      "Generate tests for: {{description}}{{#if srs}}\n\nSRS:\n{{srs}}{{/if}}",
		maxTokens: 2000,
	},
	StageMock: {
		system: `You are an automotive test infrastructure engineer.
Generate a Python mock SOME/IP service class for exercising the given service without real vehicle hardware.
Include: configurable publish frequency, realistic data generation with noise, fault injection support, subscriber pattern.
Output ONLY the Python code.`,
		user:      `Generate mock service for: {{description}}`,
		maxTokens: 1500,
	},
	StageCompliance: {
		system: `You are a {{compliance}} compliance checker.
Analyze the given C++ code for {{compliance}} compliance.
Output a markdown table with columns: Rule, Category (Required/Advisory), Description, Status (PASS/ADVISORY/FAIL).
Check at least 12 rules specific to {{compliance}}. Most should PASS. Include 1-2 ADVISORY items for realism.
Output ONLY the markdown table.`,
		user:      "Analyze for {{compliance}} compliance:\n\n{{cpp}}",
		maxTokens: 1000,
	},
}

const contextTemplate = `Service Description: {{description}}

Refinement:
{{refinements}}
Compliance Standard: {{compliance}}
Target Languages: {{languages}}
{{#if signals}}

Legacy CAN signals imported from DBC:
{{signals}}{{/if}}`
