/*
Package domain contains the core models of the checkout flow.

It defines the three-step form session, the field vocabulary shared by both
forms, the derived card summary, the submission record handed to the external
collaborator and the view the host renders. This package is kept pure and free
of I/O so that adapters (HTTP, MCP, terminal) and stores can share it.

# Key Entities

  - Step: Personal (1), Card (2) and Confirmation (3).
  - FormSession: the mutable state of one in-progress checkout.
  - CardDetails: derived card data, trusted only after validation.
  - Submission: the flat record sent to the submission endpoint.
  - View: what the host should show (active step, markers, messages).
*/
package domain
