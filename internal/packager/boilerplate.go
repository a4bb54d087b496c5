package packager

import (
	"fmt"
	"strings"
)

// Dockerfile renders the multi-stage container build for a service.
func Dockerfile(name string) string {
	sn := binaryName(name)
	return fmt.Sprintf(`# ================================================
# Dockerfile: %[1]s
# Generated by GenAuto-SDV Studio
# Base: AUTOSAR Adaptive Runtime (Linux/aarch64)
# ================================================

FROM ubuntu:22.04 AS builder

RUN apt-get update && apt-get install -y \
    build-essential cmake libboost-all-dev libvsomeip3-dev \
    && rm -rf /var/lib/apt/lists/*

WORKDIR /app
COPY src/ ./src/
COPY include/ ./include/
COPY CMakeLists.txt .
COPY models/ ./models/

RUN mkdir build && cd build && \
    cmake .. -DCMAKE_BUILD_TYPE=Release \
             -DENABLE_MISRA_CHECKS=ON \
             -DTARGET_PLATFORM=aarch64 && \
    make -j$(nproc)

FROM ubuntu:22.04 AS runtime
RUN apt-get update && apt-get install -y \
    libvsomeip3 libboost-system1.74.0 \
    && rm -rf /var/lib/apt/lists/*

WORKDIR /opt/genautomotive
COPY --from=builder /app/build/%[2]s .
COPY --from=builder /app/models/ ./models/
COPY config/ ./config/

EXPOSE 30490/udp
HEALTHCHECK --interval=5s CMD ["./%[2]s", "--health"]
ENTRYPOINT ["./%[2]s"]
`, name, sn)
}

// Compose renders a docker-compose file wiring the service into the
// diagnostics and HMI stack.
func Compose(name string) string {
	svc := composeName(name)
	return fmt.Sprintf(`version: "3.8"

services:
  %[1]s:
    build: ./services/%[1]s
    container_name: soa-%[1]s
    network_mode: host
    restart: unless-stopped
    environment:
      - SOMEIP_INSTANCE_ID=0x1234
      - VSS_SERVER=localhost:55555

  diagnostic-aggregator:
    build: ./services/diagnostic_aggregator
    container_name: soa-diagnostics
    depends_on: [%[1]s]

  hmi-dashboard:
    build: ./services/hmi_dashboard
    container_name: soa-hmi
    ports: ["8080:8080"]
    depends_on: [diagnostic-aggregator]
`, svc)
}

// CMakeLists renders the native build file.
func CMakeLists(name, compliance string) string {
	return fmt.Sprintf(`cmake_minimum_required(VERSION 3.16)
project(%s VERSION 1.0.0 LANGUAGES CXX)

set(CMAKE_CXX_STANDARD 14)
set(CMAKE_CXX_STANDARD_REQUIRED ON)

option(ENABLE_MISRA_CHECKS "Enable %s checks" ON)

find_package(Boost REQUIRED COMPONENTS system)
find_package(vsomeip3 REQUIRED)

add_executable(${PROJECT_NAME} src/main.cpp)
target_link_libraries(${PROJECT_NAME} PRIVATE vsomeip3 Boost::system)

install(TARGETS ${PROJECT_NAME} DESTINATION bin)
`, Slug(name), compliance)
}

// Readme renders the project overview.
func Readme(in Input) string {
	slug := Slug(in.Name)
	engine := in.Engine
	if engine == "" {
		engine = "n/a"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", in.Name)
	b.WriteString("> Auto-generated by **GenAuto-SDV Studio**\n\n")
	fmt.Fprintf(&b, "## Overview\n%s\n\n", strings.TrimSpace(in.Description))
	b.WriteString("## Tech Stack\n")
	fmt.Fprintf(&b, "- **Languages:** %s\n", strings.Join(in.Languages, ", "))
	fmt.Fprintf(&b, "- **Compliance:** %s\n", in.Compliance)
	b.WriteString("- **Protocols:** SOME/IP, COVESA VSS, REST\n")
	fmt.Fprintf(&b, "- **AI Engine:** %s\n\n", engine)
	b.WriteString("## Build & Run\n```bash\n")
	fmt.Fprintf(&b, "docker build -t genautomotive/%s .\n", slug)
	fmt.Fprintf(&b, "docker run -p 30490:30490/udp genautomotive/%s\n", slug)
	b.WriteString("```\n\n## Test\n```bash\npytest tests/ -v --cov\n```\n")
	return b.String()
}
